package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/paulmatencio/tbm/datatype"
	"github.com/paulmatencio/tbm/gLog"
	awsauth "github.com/smartystreets/go-aws-auth"
)

func StatObject(req datatype.StatObjRequest) (*s3.HeadObjectOutput, error) {

	input := &s3.HeadObjectInput{
		Bucket: aws.String(req.Bucket),
		Key:    aws.String(req.Key),
	}
	return req.Service.HeadObject(input)
}

// ProbeEndpoint sends a signed HEAD of the bucket to one endpoint without going
// through an aws session, so that each endpoint of a pool can be checked on its own.
func ProbeEndpoint(request datatype.ProbeRequest) error {

	url := strings.TrimSuffix(request.EndPoint, "/") + "/" + request.Bucket
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	awsauth.SignS3(req, awsauth.Credentials{
		AccessKeyID:     request.AccessKey,
		SecretAccessKey: request.SecretKey,
	})
	client := request.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	gLog.Trace.Printf("HEAD %s: %s", url, resp.Status)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HEAD %s: %s", url, resp.Status)
	}
	return nil
}

package api

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/paulmatencio/tbm/datatype"
)

func StatBucket(req datatype.StatBucketRequest) (*s3.HeadBucketOutput, error) {

	input := &s3.HeadBucketInput{
		Bucket: aws.String(req.Bucket),
	}
	return req.Service.HeadBucket(input)
}

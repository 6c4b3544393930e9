package datatype

import (
	"net/http"

	"github.com/aws/aws-sdk-go/service/s3"
)

type CreateSession struct {
	Region     string
	EndPoint   string
	AccessKey  string
	SecretKey  string
	MaxRetries int
}

type PutObjRequest struct {
	Service     *s3.S3
	Bucket      string
	Key         string
	Buffer      []byte
	Metadata    map[string]*string
	ContentType string
}

type StatBucketRequest struct {
	Service *s3.S3
	Bucket  string
}

type StatObjRequest struct {
	Service *s3.S3
	Bucket  string
	Key     string
}

// ProbeRequest is a HEAD of a bucket sent directly to one endpoint.
type ProbeRequest struct {
	Client    *http.Client
	EndPoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

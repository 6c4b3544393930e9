package api

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/paulmatencio/tbm/datatype"
)

func PutObjectWithContext(ctx context.Context, timeout time.Duration, req datatype.PutObjRequest) (*s3.PutObjectOutput, error) {

	input := &s3.PutObjectInput{
		Bucket:   aws.String(req.Bucket),
		Key:      aws.String(req.Key),
		Body:     bytes.NewReader(req.Buffer),
		Metadata: req.Metadata,
	}
	if req.ContentType != "" {
		input.ContentType = aws.String(req.ContentType)
	}
	ctx, cancel := SetContext(ctx, timeout)
	defer cancel()
	return req.Service.PutObjectWithContext(ctx, input)
}

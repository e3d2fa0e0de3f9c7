// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const defaultS3Region = "us-east-1"

// s3API is the part of the S3 client used to read objects.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func newS3Client(cfg Config) s3API {
	region := cfg.S3Region
	if region == "" {
		region = defaultS3Region
	}
	opts := s3.Options{
		Region:       region,
		UsePathStyle: cfg.S3PathStyle,
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			cfg.S3SessionToken))
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
	}
	return s3.New(opts)
}

func (o *Opener) s3Client() s3API {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.s3 == nil {
		o.s3 = newS3Client(o.cfg)
	}
	return o.s3
}

func (o *Opener) openS3(ctx context.Context, loc *Location) (io.ReadCloser, error) {
	out, err := o.s3Client().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Path),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			switch ae.ErrorCode() {
			case "NoSuchKey", "NoSuchBucket", "NotFound":
				return nil, fmt.Errorf("%w: %v: %v", ErrNotFound, loc, ae.ErrorMessage())
			}
			return nil, fmt.Errorf("failed to get %v: %v: %w", loc, ae.ErrorCode(), err)
		}
		return nil, fmt.Errorf("failed to get %v: %w", loc, err)
	}
	return out.Body, nil
}

// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// gcsAPI reads objects from Google Cloud Storage.
type gcsAPI interface {
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

type gcsClient struct {
	client *storage.Client
}

func (c *gcsClient) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	return c.client.Bucket(bucket).Object(object).NewReader(ctx)
}

func newGCSClient(ctx context.Context, cfg Config) (gcsAPI, error) {
	var opts []option.ClientOption
	if cfg.GCSEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.GCSEndpoint))
	}
	if cfg.GCSAnonymous {
		opts = append(opts, option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &gcsClient{client: client}, nil
}

func (o *Opener) gcsClient(ctx context.Context) (gcsAPI, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.gcs == nil {
		client, err := newGCSClient(ctx, o.cfg)
		if err != nil {
			return nil, err
		}
		o.gcs = client
	}
	return o.gcs, nil
}

func (o *Opener) openGCS(ctx context.Context, loc *Location) (io.ReadCloser, error) {
	client, err := o.gcsClient(ctx)
	if err != nil {
		return nil, err
	}
	r, err := client.NewReader(ctx, loc.Bucket, loc.Path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, loc)
		}
		return nil, fmt.Errorf("failed to read %v: %w", loc, err)
	}
	return r, nil
}

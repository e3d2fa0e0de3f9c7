// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// azureAPI downloads blobs from one storage account.
type azureAPI interface {
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

func azureServiceURL(cfg Config, account string) string {
	if cfg.AzureEndpoint != "" {
		return strings.TrimSuffix(cfg.AzureEndpoint, "/") + "/" + account + "/"
	}
	return "https://" + account + ".blob.core.windows.net/"
}

func newAzureClient(cfg Config, account string) (azureAPI, error) {
	serviceURL := azureServiceURL(cfg, account)
	if cfg.AzureAccountKey == "" {
		return azblob.NewClientWithNoCredential(serviceURL, nil)
	}
	cred, err := azblob.NewSharedKeyCredential(account, cfg.AzureAccountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid Azure credentials for %v: %w", account, err)
	}
	return azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
}

func (o *Opener) azureClient(account string) (azureAPI, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if client, ok := o.azure[account]; ok {
		return client, nil
	}
	client, err := newAzureClient(o.cfg, account)
	if err != nil {
		return nil, err
	}
	o.azure[account] = client
	return client, nil
}

func (o *Opener) openAzure(ctx context.Context, loc *Location) (io.ReadCloser, error) {
	client, err := o.azureClient(loc.Account)
	if err != nil {
		return nil, err
	}
	resp, err := client.DownloadStream(ctx, loc.Bucket, loc.Path, nil)
	if err != nil {
		var re *azcore.ResponseError
		if errors.As(err, &re) {
			if re.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: %v: %v", ErrNotFound, loc, re.ErrorCode)
			}
			return nil, fmt.Errorf("failed to download %v: %v: %w", loc, re.ErrorCode, err)
		}
		return nil, fmt.Errorf("failed to download %v: %w", loc, err)
	}
	return resp.Body, nil
}

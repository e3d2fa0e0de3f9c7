// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Statement is the statement owning a cursor. When it reports
// CloseOnCompletion, closing the cursor closes it too.
type Statement interface {
	CloseOnCompletion() bool
	Close() error
}

// QueryClient posts a query to the service and returns the response body,
// a stream in the tab separated wire format.
type QueryClient interface {
	PostQuery(ctx context.Context, sql string, queryID string) (io.ReadCloser, error)
}

// OpenQuery runs sql through client and opens a cursor on the response. The
// query id is generated and attached to the context, the logs and the errors.
func OpenQuery(ctx context.Context, client QueryClient, sql string, opts ...Option) (*Cursor, error) {
	queryID := uuid.NewString()
	ctx = context.WithValue(ctx, QueryIDKey, queryID)
	logger.WithContext(ctx).Debugf("posting query: %v", sql)
	body, err := client.PostQuery(ctx, sql, queryID)
	if err != nil {
		logger.WithContext(ctx).Errorf("failed to post query: %v", err)
		return nil, err
	}
	return Open(ctx, body, append(opts, WithQueryID(queryID))...)
}

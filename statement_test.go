// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeQueryClient struct {
	response string
	err      error
	sql      string
	queryID  string
	ctxID    any
	body     *trackingReader
}

func (fc *fakeQueryClient) PostQuery(ctx context.Context, sql string, queryID string) (io.ReadCloser, error) {
	fc.sql = sql
	fc.queryID = queryID
	fc.ctxID = ctx.Value(QueryIDKey)
	if fc.err != nil {
		return nil, fc.err
	}
	fc.body = &trackingReader{Reader: strings.NewReader(fc.response)}
	return fc.body, nil
}

func TestOpenQuery(t *testing.T) {
	client := &fakeQueryClient{response: threeRows}
	c, err := OpenQuery(context.Background(), client, "select id, name from t", WithMaxRows(1))
	assertNilF(t, err)

	assertEqualE(t, client.sql, "select id, name from t")
	assertEqualE(t, len(client.queryID), 36)
	assertEqualE(t, client.ctxID, any(client.queryID))
	assertEqualE(t, c.QueryID(), client.queryID)

	mustNext(t, c)
	ok, err := c.Next()
	assertNilF(t, err)
	assertFalseE(t, ok, "options are passed on")
	assertNilF(t, c.Close())
	assertEqualE(t, client.body.closed, 1)
}

func TestOpenQueryPostError(t *testing.T) {
	postErr := errors.New("service unavailable")
	_, err := OpenQuery(context.Background(), &fakeQueryClient{err: postErr}, "select 1")
	assertErrIsE(t, err, postErr)
}

func TestOpenQueryMalformedResponse(t *testing.T) {
	client := &fakeQueryClient{response: "a\tb\nint32\n"}
	_, err := OpenQuery(context.Background(), client, "select 1")
	var ce *CursorError
	assertErrorsAsF(t, err, &ce)
	assertEqualE(t, ce.Number, ErrCodeFormat)
	assertEqualE(t, ce.QueryID, client.queryID)
	assertEqualE(t, client.body.closed, 1)
}

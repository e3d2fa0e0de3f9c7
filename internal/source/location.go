// Copyright (c) 2024 The gobolt Authors. All rights reserved.

// Package source opens archived query responses from local files, standard
// input, web servers and cloud object stores.
package source

import (
	"fmt"
	"net/url"
	"strings"
)

// Scheme identifies where a response is stored.
type Scheme string

// supported schemes
const (
	SchemeFile  Scheme = "file"
	SchemeStdin Scheme = "stdin"
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
	SchemeS3    Scheme = "s3"
	SchemeGCS   Scheme = "gs"
	SchemeAzure Scheme = "azblob"
)

// Location is a parsed response location.
type Location struct {
	Scheme Scheme
	// Account is the Azure storage account.
	Account string
	// Bucket is the S3 or GCS bucket, or the Azure container.
	Bucket string
	// Path is the object key, blob name or local path.
	Path string
	raw  string
}

func (l *Location) String() string {
	return l.raw
}

// Parse parses a response location. Strings without a scheme are local
// paths, "-" is standard input.
func Parse(uri string) (*Location, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty location")
	}
	if uri == "-" {
		return &Location{Scheme: SchemeStdin, raw: uri}, nil
	}
	if !strings.Contains(uri, "://") {
		return &Location{Scheme: SchemeFile, Path: uri, raw: uri}, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", uri, err)
	}
	loc := &Location{Scheme: Scheme(strings.ToLower(u.Scheme)), raw: uri}
	switch loc.Scheme {
	case SchemeFile:
		loc.Path = u.Path
	case SchemeHTTP, SchemeHTTPS:
		loc.Path = u.Path
	case SchemeS3, SchemeGCS:
		loc.Bucket = u.Host
		loc.Path = strings.TrimPrefix(u.Path, "/")
		if loc.Bucket == "" || loc.Path == "" {
			return nil, fmt.Errorf("location %q needs a bucket and an object", uri)
		}
	case SchemeAzure:
		loc.Account = u.Host
		container, blob, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		loc.Bucket, loc.Path = container, blob
		if loc.Account == "" || loc.Bucket == "" || loc.Path == "" {
			return nil, fmt.Errorf("location %q needs an account, a container and a blob", uri)
		}
	default:
		return nil, fmt.Errorf("unsupported scheme %q in %q", u.Scheme, uri)
	}
	return loc, nil
}

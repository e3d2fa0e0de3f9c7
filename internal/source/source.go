// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/boltstream/gobolt/internal/logger"
)

// ErrNotFound is returned when the response does not exist.
var ErrNotFound = errors.New("response not found")

var log = logger.NewProxy()

// Config holds the endpoints and credentials of the object stores. Empty
// fields fall back to the store's defaults.
type Config struct {
	S3Region       string
	S3Endpoint     string
	S3PathStyle    bool
	S3AccessKey    string
	S3SecretKey    string
	S3SessionToken string

	GCSEndpoint  string
	GCSAnonymous bool

	AzureEndpoint   string
	AzureAccountKey string

	// HTTPHeaderTimeout bounds the wait for response headers. Reading the
	// body is bounded by the context only.
	HTTPHeaderTimeout time.Duration
}

// ConfigFromEnv reads the configuration from the usual environment
// variables of each store.
func ConfigFromEnv() Config {
	return Config{
		S3Region:        firstEnv("AWS_REGION", "AWS_DEFAULT_REGION"),
		S3Endpoint:      os.Getenv("AWS_ENDPOINT_URL_S3"),
		S3PathStyle:     os.Getenv("GOBOLT_S3_PATH_STYLE") == "true",
		S3AccessKey:     os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:     os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3SessionToken:  os.Getenv("AWS_SESSION_TOKEN"),
		GCSEndpoint:     os.Getenv("STORAGE_EMULATOR_HOST"),
		GCSAnonymous:    os.Getenv("GOBOLT_GCS_ANONYMOUS") == "true",
		AzureEndpoint:   os.Getenv("AZURE_STORAGE_ENDPOINT"),
		AzureAccountKey: os.Getenv("AZURE_STORAGE_KEY"),
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Opener opens responses. Store clients are created on first use and shared
// by later calls; an Opener is safe for concurrent use.
type Opener struct {
	cfg   Config
	stdin io.Reader
	http  *http.Client

	mu    sync.Mutex
	s3    s3API
	gcs   gcsAPI
	azure map[string]azureAPI
}

// NewOpener creates an opener with the given configuration.
func NewOpener(cfg Config) *Opener {
	return &Opener{
		cfg:   cfg,
		stdin: os.Stdin,
		http:  newHTTPClient(cfg.HTTPHeaderTimeout),
		azure: make(map[string]azureAPI),
	}
}

const defaultHTTPHeaderTimeout = time.Minute

func newHTTPClient(headerTimeout time.Duration) *http.Client {
	if headerTimeout <= 0 {
		headerTimeout = defaultHTTPHeaderTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = headerTimeout
	return &http.Client{Transport: transport}
}

// Open opens the response at uri with a configuration read from the
// environment.
func Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return NewOpener(ConfigFromEnv()).Open(ctx, uri)
}

// Open opens the response at uri.
func (o *Opener) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	log.WithContext(ctx).Debugf("opening response %v", loc)
	var rc io.ReadCloser
	switch loc.Scheme {
	case SchemeStdin:
		rc = io.NopCloser(o.stdin)
	case SchemeFile:
		rc, err = openFile(loc.Path)
	case SchemeHTTP, SchemeHTTPS:
		rc, err = o.openHTTP(ctx, loc)
	case SchemeS3:
		rc, err = o.openS3(ctx, loc)
	case SchemeGCS:
		rc, err = o.openGCS(ctx, loc)
	case SchemeAzure:
		rc, err = o.openAzure(ctx, loc)
	default:
		err = fmt.Errorf("unsupported scheme %q", loc.Scheme)
	}
	if err != nil {
		log.WithContext(ctx).Errorf("failed to open response %v: %v", loc, err)
		return nil, err
	}
	return rc, nil
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, err
	}
	return f, nil
}

func (o *Opener) openHTTP(ctx context.Context, loc *Location) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.raw, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, loc)
		}
		return nil, fmt.Errorf("failed to fetch %v: HTTP status %v", loc, resp.Status)
	}
	return resp.Body, nil
}

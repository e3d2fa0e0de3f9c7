// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/boltstream/gobolt"
	"github.com/boltstream/gobolt/boltloc"
	"github.com/boltstream/gobolt/internal/source"
)

// output formats
const (
	formatJSON  = "json"
	formatTSV   = "tsv"
	formatArrow = "arrow"
)

type options struct {
	format            string
	output            string
	configFile        string
	compression       string
	compressionSet    bool
	outputCompression string
	maxRows           int64
	timeZone          string
	timeFormat        string
	logLevel          string
	logResponse       bool
	parallel          int
	batchSize         int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "boltcat [location...]",
		Short: "Decode archived query responses",
		Long: `boltcat decodes query responses stored in the tab separated wire format.

Locations may be local paths, "-" for stdin, http(s) URLs, s3://bucket/key,
gs://bucket/object or azblob://account/container/blob.

Examples:
  boltcat response.tsv
  boltcat --format tsv --output-compression zstd -o copy.tsv.zst s3://results/q1.tsv.gz
  boltcat --format arrow -o q1.arrow gs://results/q1.tsv
  cat response.tsv | boltcat --time-zone Europe/Paris --time-format "YYYY-MM-DD HH24:MI"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			opts.compressionSet = cmd.Flags().Changed("compression")
			return run(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, tsv or arrow")
	flags.StringVarP(&opts.output, "output", "o", "", "output file, stdout when empty")
	flags.StringVar(&opts.configFile, "config", "", "cursor configuration file (TOML)")
	flags.StringVar(&opts.compression, "compression", string(gobolt.CompressionAuto), "input compression: none, gzip, zstd, lz4 or auto")
	flags.StringVar(&opts.outputCompression, "output-compression", string(gobolt.CompressionNone), "compression of tsv output")
	flags.Int64Var(&opts.maxRows, "max-rows", 0, "stop after that many rows per response, 0 for all")
	flags.StringVar(&opts.timeZone, "time-zone", "", "calendar naive temporal values are read in")
	flags.StringVar(&opts.timeFormat, "time-format", "", "SQL style format of temporal values in json output")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: off, error, warn, info, debug or trace")
	flags.BoolVar(&opts.logResponse, "log-response", false, "log every raw line at debug level")
	flags.IntVarP(&opts.parallel, "parallel", "p", 4, "number of responses decoded at once")
	flags.IntVar(&opts.batchSize, "batch-size", 1024, "rows per arrow record batch")
	return cmd
}

func (o *options) cursorConfig() (*gobolt.Config, error) {
	cfg := gobolt.DefaultConfig()
	if o.configFile != "" {
		loaded, err := gobolt.LoadConfig(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	// a compression from the config file wins over the flag default
	if o.compressionSet || o.configFile == "" {
		compression, err := gobolt.ParseCompression(o.compression)
		if err != nil {
			return nil, err
		}
		cfg.Compression = compression
	}
	if o.maxRows > 0 {
		cfg.MaxRows = o.maxRows
	}
	if o.timeZone != "" {
		cfg.TimeZone = o.timeZone
	}
	if o.logResponse {
		cfg.LogResponse = true
	}
	return cfg, nil
}

func run(ctx context.Context, o *options, locations []string, stdout io.Writer) error {
	if o.logLevel != "" {
		if err := gobolt.GetLogger().SetLogLevel(o.logLevel); err != nil {
			return err
		}
	}
	cfg, err := o.cursorConfig()
	if err != nil {
		return err
	}
	loc, err := boltloc.Location(cfg.TimeZone)
	if err != nil {
		return err
	}
	r := &renderer{format: o.format, loc: loc, batchSize: o.batchSize}
	switch o.format {
	case formatJSON:
		r.layout = time.RFC3339Nano
		if o.timeFormat != "" {
			if r.layout, err = gobolt.SQLFormatToLayout(o.timeFormat); err != nil {
				return err
			}
		}
	case formatTSV:
		if r.compression, err = gobolt.ParseCompression(o.outputCompression); err != nil {
			return err
		}
	case formatArrow:
		if len(locations) != 1 {
			return fmt.Errorf("arrow output takes exactly one location, got %v", len(locations))
		}
	default:
		return fmt.Errorf("unknown output format %q", o.format)
	}

	out := stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	opener := source.NewOpener(source.ConfigFromEnv())
	seq := newSequencer(out, len(locations))
	group, ctx := errgroup.WithContext(ctx)
	if o.parallel > 0 {
		group.SetLimit(o.parallel)
	}
	for i, location := range locations {
		i, location := i, location
		group.Go(func() error {
			rc, err := opener.Open(ctx, location)
			if err != nil {
				return err
			}
			cursor, err := gobolt.Open(ctx, rc, gobolt.WithConfig(cfg))
			if err != nil {
				return fmt.Errorf("%v: %w", location, err)
			}
			defer cursor.Close()
			if err = r.render(seq.writer(i), cursor); err != nil {
				return fmt.Errorf("%v: %w", location, err)
			}
			return seq.finish(i)
		})
	}
	return group.Wait()
}

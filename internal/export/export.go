// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Error represents an export error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNoDestination is returned when no export destination is configured.
	ErrNoDestination Error = "no export destination configured"

	// ErrInvalidDestination is returned for a malformed destination.
	ErrInvalidDestination Error = "invalid export destination"

	s3Scheme = "s3://"
	stampFmt = "20060102-150405"
)

// Sink stores an encoded export under a name and returns where it landed.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// Encode renders a header and rows as CSV.
func Encode(header []string, rows [][]string) ([]byte, error) {
	var buff bytes.Buffer
	w := csv.NewWriter(&buff)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// Exporter writes CSV exports to a sink.
type Exporter struct {
	sink  Sink
	log   *zap.Logger
	clock func() time.Time
}

// NewExporter returns an exporter writing to the given sink.
func NewExporter(s Sink, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{sink: s, log: log, clock: time.Now}
}

// SetClock overrides the clock used to stamp file names.
func (e *Exporter) SetClock(c func() time.Time) {
	e.clock = c
}

// FileName returns the stamped CSV file name for an export.
func (e *Exporter) FileName(name string) string {
	return fmt.Sprintf("%s-%s.csv", name, e.clock().Format(stampFmt))
}

// Export encodes the rows and stores them.
func (e *Exporter) Export(ctx context.Context, name string, header []string, rows [][]string) (string, error) {
	if e.sink == nil {
		return "", ErrNoDestination
	}
	data, err := Encode(header, rows)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	loc, err := e.sink.Put(ctx, e.FileName(name), data)
	if err != nil {
		return "", err
	}
	e.log.Info("Export written", zap.String("name", name), zap.String("location", loc), zap.Int("rows", len(rows)))

	return loc, nil
}

// Destination is a parsed export location.
type Destination struct {
	Bucket string
	Prefix string
	Dir    string
}

// IsS3 reports whether the destination is an S3 bucket.
func (d Destination) IsS3() bool {
	return d.Bucket != ""
}

// ParseDestination parses either s3://bucket[/prefix] or a local directory.
func ParseDestination(s string) (Destination, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Destination{}, ErrNoDestination
	}
	if !strings.HasPrefix(s, s3Scheme) {
		return Destination{Dir: s}, nil
	}

	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(s, s3Scheme), "/")
	if bucket == "" {
		return Destination{}, fmt.Errorf("%w: %q", ErrInvalidDestination, s)
	}

	return Destination{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// S3Options carries the AWS settings of an S3 destination.
type S3Options struct {
	Profile string
	Region  string
	Timeout time.Duration
}

// NewSink builds the sink matching the destination.
func NewSink(ctx context.Context, dest string, opts S3Options) (Sink, error) {
	d, err := ParseDestination(dest)
	if err != nil {
		return nil, err
	}
	if !d.IsS3() {
		return NewFileSink(d.Dir), nil
	}

	return NewS3Sink(ctx, d.Bucket, d.Prefix, opts)
}

// IsNoDestination reports whether err means exporting is not configured.
func IsNoDestination(err error) bool {
	return errors.Is(err, ErrNoDestination)
}

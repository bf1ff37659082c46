package export_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcon/evcon/internal/export"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestEncode(t *testing.T) {
	bb, err := export.Encode([]string{"NAME", "TOTAL"}, [][]string{{"CS-1", "12.50"}, {"a,b", "1"}})
	require.NoError(t, err)
	assert.Equal(t, "NAME,TOTAL\nCS-1,12.50\n\"a,b\",1\n", string(bb))
}

func TestParseDestination(t *testing.T) {
	uu := map[string]struct {
		dest string
		e    export.Destination
		err  error
	}{
		"dir":       {dest: "/tmp/out", e: export.Destination{Dir: "/tmp/out"}},
		"bucket":    {dest: "s3://reports", e: export.Destination{Bucket: "reports"}},
		"prefix":    {dest: "s3://reports/evcon/stats/", e: export.Destination{Bucket: "reports", Prefix: "evcon/stats"}},
		"empty":     {dest: "  ", err: export.ErrNoDestination},
		"no-bucket": {dest: "s3:///x", err: export.ErrInvalidDestination},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			d, err := export.ParseDestination(u.dest)
			if u.err != nil {
				assert.ErrorIs(t, err, u.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.e, d)
		})
	}
}

func TestFileExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := export.NewExporter(export.NewFileSink(dir), nil)
	e.SetClock(func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) })

	loc, err := e.Export(context.Background(), "consumption", []string{"NAME"}, [][]string{{"CS-1"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "consumption-20240301-103000.csv"), loc)

	bb, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "NAME\nCS-1\n", string(bb))
}

func TestS3Export(t *testing.T) {
	c := fakeS3{}
	e := export.NewExporter(export.NewS3SinkWithClient(&c, "reports", "evcon"), nil)
	e.SetClock(func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) })

	loc, err := e.Export(context.Background(), "consumption", []string{"NAME"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/evcon/consumption-20240301-103000.csv", loc)
	assert.Equal(t, "reports", aws.ToString(c.in.Bucket))
	assert.Equal(t, "text/csv", aws.ToString(c.in.ContentType))
	assert.Equal(t, "NAME\n", string(c.body))
}

func TestS3ExportFailure(t *testing.T) {
	c := fakeS3{err: &smithy.GenericAPIError{Code: "ExpiredToken", Message: "expired"}}
	e := export.NewExporter(export.NewS3SinkWithClient(&c, "reports", ""), nil)

	_, err := e.Export(context.Background(), "consumption", nil, nil)
	assert.ErrorIs(t, err, export.ErrExpiredCredentials)
}

func TestNoSink(t *testing.T) {
	_, err := export.NewExporter(nil, nil).Export(context.Background(), "x", nil, nil)
	assert.True(t, export.IsNoDestination(err))
}

func TestWrapAWSError(t *testing.T) {
	assert.NoError(t, export.WrapAWSError(nil, "op"))

	err := export.WrapAWSError(&smithy.GenericAPIError{Code: "Boom", Message: "bad"}, "upload")
	assert.EqualError(t, err, "upload failed: bad (Boom)")

	err = export.WrapAWSError(errors.New("net down"), "upload")
	assert.EqualError(t, err, "upload failed: net down")
}

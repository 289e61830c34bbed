package display

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"

	"github.com/df07/go-bidi-raytracer/pkg/renderer"
)

// Output describes where and how a render is stored. The bucket URL picks a
// gocloud driver (file://, mem://, gs://); the binary registers the drivers
// it supports.
type Output struct {
	BucketURL string
	Key       string // Image key; the report goes beside it with a .json extension
	Format    Format
	Exposure  float64
}

// ReportKey returns the key the report is stored under
func (o Output) ReportKey() string {
	return strings.TrimSuffix(o.Key, o.Format.Extension()) + ".json"
}

// Save opens the output bucket and writes img and report to it
func Save(ctx context.Context, out Output, img *renderer.Raster, report *Report) (err error) {
	bucket, err := blob.OpenBucket(ctx, out.BucketURL)
	if err != nil {
		return errors.Wrapf(err, "opening bucket %s", out.BucketURL)
	}
	defer func() {
		if cerr := bucket.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(ctx, bucket, out, img, report)
}

// Write encodes img and stores it, followed by report when non-nil, in
// bucket. The report records the image key.
func Write(ctx context.Context, bucket *blob.Bucket, out Output, img *renderer.Raster, report *Report) error {
	if out.Format == "" {
		out.Format = FormatPNG
	}
	if out.Key == "" {
		return errors.New("output key is empty")
	}

	w, err := bucket.NewWriter(ctx, out.Key, &blob.WriterOptions{ContentType: out.Format.ContentType()})
	if err != nil {
		return errors.Wrapf(err, "creating %s", out.Key)
	}
	if err := out.Format.Encode(w, img, out.Exposure); err != nil {
		w.Close()
		return errors.Wrapf(err, "writing %s", out.Key)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", out.Key)
	}

	if report == nil {
		return nil
	}
	report.Image = out.Key
	data, err := report.Marshal()
	if err != nil {
		return err
	}
	opts := &blob.WriterOptions{ContentType: "application/json"}
	if err := bucket.WriteAll(ctx, out.ReportKey(), data, opts); err != nil {
		return errors.Wrapf(err, "writing %s", out.ReportKey())
	}
	return nil
}

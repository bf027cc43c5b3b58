package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSUploader writes objects to a Google Cloud Storage bucket.
type GCSUploader struct {
	client *gcs.Client
	Bucket string
}

// NewGCSUploader creates the client. If credsPath is empty, ADC is used.
func NewGCSUploader(ctx context.Context, bucket, credsPath string) (*GCSUploader, error) {
	var (
		client *gcs.Client
		err    error
	)
	if credsPath == "" {
		client, err = gcs.NewClient(ctx)
	} else {
		client, err = gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
	}
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: client, Bucket: bucket}, nil
}

func (u *GCSUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	wc := u.client.Bucket(u.Bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return GCSPublicURL(u.Bucket, objectPath), nil
}

func (u *GCSUploader) Close() error {
	return u.client.Close()
}

// GCSPublicURL builds a public URL for an object (assuming public read access)
func GCSPublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

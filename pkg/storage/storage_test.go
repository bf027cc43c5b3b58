package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.webp"} {
		assert.True(t, IsImage(name), name)
	}
	for _, name := range []string{"a.pdf", "noext", "x.jpg.exe", ""} {
		assert.False(t, IsImage(name), name)
	}
}

func TestBuildPath(t *testing.T) {
	p := BuildPath("cars", "../../My Photo.PNG")
	assert.True(t, strings.HasPrefix(p, "cars/"))
	assert.True(t, strings.HasSuffix(p, ".png"))
	assert.NotContains(t, p, "Photo")
	assert.NotEqual(t, p, BuildPath("cars", "My Photo.PNG"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a.png", "text/plain"))
	assert.Equal(t, "text/plain", ContentType("a.txt", "text/plain"))
	assert.Equal(t, "application/octet-stream", ContentType("a", ""))
}

func TestS3BaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", s3BaseURL(S3Config{PublicBaseURL: "https://cdn.example.com/"}))
	assert.Equal(t, "http://minio:9000/media", s3BaseURL(S3Config{Endpoint: "http://minio:9000", Bucket: "media"}))
	assert.Equal(t, "https://media.s3.eu-central-1.amazonaws.com", s3BaseURL(S3Config{Bucket: "media", Region: "eu-central-1"}))
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Uploader_Upload(t *testing.T) {
	fp := &fakePutter{}
	u := &S3Uploader{client: fp, bucket: "media", baseURL: "https://cdn.example.com"}

	url, err := u.Upload(context.Background(), "avatars/x.png", "image/png", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/x.png", url)
	assert.Equal(t, "media", aws.ToString(fp.in.Bucket))
	assert.Equal(t, "avatars/x.png", aws.ToString(fp.in.Key))
	assert.Equal(t, "image/png", aws.ToString(fp.in.ContentType))
	assert.Equal(t, "img", fp.body)
}

func TestS3Uploader_Error(t *testing.T) {
	u := &S3Uploader{client: &fakePutter{err: errors.New("denied")}, bucket: "media", baseURL: "x"}
	_, err := u.Upload(context.Background(), "k", "image/png", strings.NewReader(""))
	assert.Error(t, err)
}

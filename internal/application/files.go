package application

import (
	"context"
	"io"

	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/storage"
)

// File is an uploaded file handed over by the HTTP layer.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

const msgNotImage = "Only image files are allowed!"

// ImageStore validates images and pushes them to object storage.
type ImageStore struct {
	Uploader storage.Uploader
}

func NewImageStore(u storage.Uploader) *ImageStore {
	return &ImageStore{Uploader: u}
}

// Check rejects non-image files before any write happens.
func (s *ImageStore) Check(files ...*File) error {
	for _, f := range files {
		if f != nil && !storage.IsImage(f.Name) {
			return apperror.Validation(msgNotImage)
		}
	}
	return nil
}

// Put uploads f under kind/ and returns its URL. A nil file yields "".
func (s *ImageStore) Put(ctx context.Context, kind string, f *File) (string, error) {
	if f == nil {
		return "", nil
	}
	if err := s.Check(f); err != nil {
		return "", err
	}
	if s == nil || s.Uploader == nil {
		return "", apperror.New(apperror.CodeDependency, "file storage is not configured")
	}
	url, err := s.Uploader.Upload(ctx, storage.BuildPath(kind, f.Name), storage.ContentType(f.Name, f.ContentType), f.Body)
	if err != nil {
		return "", apperror.Wrap(apperror.CodeDependency, err, "file upload failed")
	}
	return url, nil
}

// PutAll uploads every file in order and stops at the first failure.
func (s *ImageStore) PutAll(ctx context.Context, kind string, files []*File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.Put(ctx, kind, f)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

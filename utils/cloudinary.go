package utils

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrImageStoreDisabled = errors.New("image storage is not configured")

// ImageStore persists an uploaded product image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

// Upload streams the file to Cloudinary and returns the secure URL.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	uniqueFilename := true
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       filename,
		Folder:         s.folder,
		UniqueFilename: &uniqueFilename,
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	return result.SecureURL, nil
}

// DisabledImageStore rejects every upload. Used when Cloudinary credentials are absent.
type DisabledImageStore struct{}

func (DisabledImageStore) Upload(context.Context, io.Reader, string) (string, error) {
	return "", ErrImageStoreDisabled
}

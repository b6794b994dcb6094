// Package imagestore uploads project images to a GCS bucket and enforces
// the client-side policy on what may be uploaded.  The bucket does not
// enforce any of this; the policy lives here.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// MaxImagesPerProject caps how many images one project may carry.
const MaxImagesPerProject = 5

var (
	ErrTooManyImages = fmt.Errorf("a project can have at most %d images", MaxImagesPerProject)
	ErrNotAnImage    = errors.New("only image files can be uploaded")
)

// Image is one pending upload.
type Image struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

type Store struct {
	bucketName string
	gcsClient  *storage.Client
}

func New(ctx context.Context, bucketName string) (*Store, error) {
	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("while creating GCS client: %w", err)
	}

	return &Store{
		bucketName: bucketName,
		gcsClient:  gcsClient,
	}, nil
}

// ValidateImages applies the upload policy: at most MaxImagesPerProject
// files, every one an image MIME type.
func ValidateImages(images []Image) error {
	if len(images) > MaxImagesPerProject {
		return ErrTooManyImages
	}
	for _, img := range images {
		if !strings.HasPrefix(img.ContentType, "image/") {
			return ErrNotAnImage
		}
	}
	return nil
}

// UploadProjectImages validates and uploads the images, returning one
// durable retrieval URL per image, in input order.  A failed upload aborts
// the batch; already-uploaded objects are left behind (orphaned blobs are
// harmless and cheap).
func (s *Store) UploadProjectImages(ctx context.Context, ownerID string, images []Image) ([]string, error) {
	if err := ValidateImages(images); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		name := objectName(ownerID, img.Filename, time.Now())

		w := s.gcsClient.Bucket(s.bucketName).Object(name).NewWriter(ctx)
		w.ContentType = img.ContentType
		if _, err := io.Copy(w, img.Data); err != nil {
			w.Close()
			return nil, fmt.Errorf("while uploading image %q: %w", img.Filename, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("while finishing upload of image %q: %w", img.Filename, err)
		}

		urls = append(urls, fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, name))
	}

	return urls, nil
}

// objectName namespaces each blob under its owner, with a timestamp prefix
// so re-uploads of the same filename never collide.
func objectName(ownerID, filename string, now time.Time) string {
	base := path.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("project-images/%s/%d-%s", ownerID, now.UnixNano(), base)
}

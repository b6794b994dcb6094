package imagestore

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func pngImage(name string) Image {
	return Image{Filename: name, ContentType: "image/png", Data: strings.NewReader("fake")}
}

func TestValidateImagesAcceptsUpToLimit(t *testing.T) {
	var images []Image
	for i := 0; i < MaxImagesPerProject; i++ {
		images = append(images, pngImage("a.png"))
	}
	if err := ValidateImages(images); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestValidateImagesRejectsTooMany(t *testing.T) {
	var images []Image
	for i := 0; i < MaxImagesPerProject+1; i++ {
		images = append(images, pngImage("a.png"))
	}
	if err := ValidateImages(images); !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("Got %v, want ErrTooManyImages", err)
	}
}

func TestValidateImagesRejectsNonImages(t *testing.T) {
	images := []Image{
		pngImage("a.png"),
		{Filename: "notes.pdf", ContentType: "application/pdf", Data: strings.NewReader("x")},
	}
	if err := ValidateImages(images); !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("Got %v, want ErrNotAnImage", err)
	}
}

func TestObjectNameNamespacing(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got := objectName("u1", "my photo.png", now)
	if !strings.HasPrefix(got, "u1/") && !strings.HasPrefix(got, "project-images/u1/") {
		t.Errorf("Object name %q not namespaced under the owner", got)
	}
	if strings.Contains(got, " ") {
		t.Errorf("Object name %q contains spaces", got)
	}
	if !strings.HasSuffix(got, "my_photo.png") {
		t.Errorf("Object name %q lost the filename", got)
	}
}

func TestObjectNameStripsDirectories(t *testing.T) {
	now := time.Now()
	got := objectName("u1", "../../etc/passwd", now)
	if strings.Contains(got, "..") {
		t.Errorf("Object name %q kept directory traversal components", got)
	}
}

// internal/adapters/out/gcs/product_image_repository_gcs.go
package gcs

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ProductImageRepositoryGCS stores product images in a Cloud Storage bucket.
//
// Object path: products/<productId>/<objectId><ext>
type ProductImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewProductImageRepositoryGCS(client *storage.Client, bucket string) *ProductImageRepositoryGCS {
	return &ProductImageRepositoryGCS{Client: client, Bucket: strings.TrimSpace(bucket)}
}

// Upload writes the image and returns its public URL.
func (r *ProductImageRepositoryGCS) Upload(ctx context.Context, productID, fileName, contentType string, body io.Reader) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("product_image_repository_gcs: storage client is nil")
	}
	if r.Bucket == "" {
		return "", errors.New("product_image_repository_gcs: bucket is empty")
	}

	pid := sanitizePathSegment(productID)
	if pid == "" {
		return "", errors.New("product_image_repository_gcs: productID is empty")
	}

	name := ensureExtensionByMIME(sanitizePathSegment(fileName), contentType)
	if name == "" {
		name = newObjectID()
	}
	objectPath := path.Join("products", pid, newObjectID()+"_"+name)

	w := r.Client.Bucket(r.Bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = strings.TrimSpace(contentType)
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs upload failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs upload close failed: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", r.Bucket, objectPath), nil
}

// Delete removes an object by path. Missing objects are not an error.
func (r *ProductImageRepositoryGCS) Delete(ctx context.Context, objectPath string) error {
	if r == nil || r.Client == nil {
		return errors.New("product_image_repository_gcs: storage client is nil")
	}
	op := strings.TrimSpace(objectPath)
	if op == "" {
		return nil
	}
	err := r.Client.Bucket(r.Bucket).Object(op).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// sanitizePathSegment normalizes a path segment for GCS object paths.
// - removes separators
// - trims dots/spaces
func sanitizePathSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.Trim(s, ". ")
	return s
}

// ensureExtensionByMIME appends an extension based on MIME when fileName has no extension.
func ensureExtensionByMIME(fileName string, mime string) string {
	lower := strings.ToLower(strings.TrimSpace(fileName))

	if strings.Contains(path.Base(lower), ".") {
		return fileName
	}

	ext := ""
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	}
	return fileName + ext
}

// newObjectID generates a random-ish id for object paths.
func newObjectID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err == nil {
		return hex.EncodeToString(b)
	}
	return fmt.Sprintf("%d", time.Now().UTC().UnixNano())
}

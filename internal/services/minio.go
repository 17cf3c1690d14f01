package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"donpollo_back_end/internal/apperr"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore dépose les photos produits dans un bucket MinIO
type ImageStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

func NewImageStore(client *minio.Client, bucket, endpoint string, useSSL bool) *ImageStore {
	return &ImageStore{client: client, bucket: bucket, endpoint: endpoint, useSSL: useSSL}
}

func (s *ImageStore) Upload(ctx context.Context, productID int64, file *multipart.FileHeader) (string, error) {
	name, contentType, err := objectName(productID, file)
	if err != nil {
		return "", err
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, s.bucket, name, f, file.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("envoi MinIO: %w", err)
	}
	return s.URL(name), nil
}

// URL publique de l'objet
func (s *ImageStore) URL(object string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, object)
}

// objectName : products/<id>/<uuid><ext>, le nom d'origine n'est jamais réutilisé
func objectName(productID int64, file *multipart.FileHeader) (string, string, error) {
	if file == nil {
		return "", "", apperr.Invalid("image", "fichier requis")
	}
	if file.Size <= 0 || file.Size > MaxImageSize {
		return "", "", apperr.Invalid("image", "taille invalide (5 Mo max)")
	}

	contentType := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", "", apperr.Invalid("image", "format non supporté")
	}
	if orig := strings.ToLower(filepath.Ext(file.Filename)); orig == ".jpeg" || orig == ext {
		ext = orig
	}

	return path.Join("products", fmt.Sprint(productID), uuid.NewString()+ext), contentType, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	maxImageSize = 5 * 1024 * 1024
	maxDocSize   = 50 * 1024 * 1024
)

var (
	ErrFileTooBig      = errors.New("file is too big")
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrUploadFailed    = errors.New("failed to upload file")

	imageTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
	}
)

// ObjectPutter is the part of *minio.Client uploads use.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type UploadService struct {
	objects ObjectPutter
	bucket  string
	baseURL string
}

func NewUploadService(objects ObjectPutter, bucket, publicBaseURL string) *UploadService {
	return &UploadService{objects: objects, bucket: bucket, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// NewMinioClient connects and makes sure the bucket exists.
func NewMinioClient(ctx context.Context, endpoint, accessKey, secretKey, bucket string, secure bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return client, nil
}

func fileErr(err error) error {
	return ValidationErrors{{Field: "file", Err: err}}
}

func (s *UploadService) put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.objects.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"Uploaded-At": time.Now().UTC().Format(time.RFC3339)},
	})
	if err != nil {
		log.Printf("[upload] put %s failed: %v", key, err)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return s.baseURL + "/" + key, nil
}

// UploadImage stores a news/banner image and returns its public URL.
func (s *UploadService) UploadImage(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	if size > maxImageSize {
		return "", fileErr(ErrFileTooBig)
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := imageTypes[ct]
	if !ok {
		return "", fileErr(ErrInvalidFileType)
	}
	key := fmt.Sprintf("images/%s/%s%s", time.Now().UTC().Format("2006/01"), uuid.NewString(), ext)
	return s.put(ctx, key, r, size, ct)
}

// UploadDoc stores a downloadable document, keeping its original name at the end of the key.
func (s *UploadService) UploadDoc(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	if size > maxDocSize {
		return "", fileErr(ErrFileTooBig)
	}
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	ct, ok := DocContentType(name)
	if !ok {
		return "", fileErr(ErrInvalidFileType)
	}
	key := fmt.Sprintf("docs/%s/%s", uuid.NewString(), name)
	return s.put(ctx, key, r, size, ct)
}

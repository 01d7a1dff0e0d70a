package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     string
	err                      error
}

func (f *fakePutter) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	b, _ := io.ReadAll(r)
	f.bucket, f.key, f.contentType, f.body = bucket, key, opts.ContentType, string(b)
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(b))}, nil
}

func TestUploadImage(t *testing.T) {
	p := &fakePutter{}
	svc := NewUploadService(p, "portal", "http://cdn.local/portal/")

	url, err := svc.UploadImage(context.Background(), strings.NewReader("png"), 3, "IMAGE/PNG")
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if p.bucket != "portal" || p.contentType != "image/png" || p.body != "png" {
		t.Fatalf("unexpected put: %+v", p)
	}
	if !strings.HasPrefix(p.key, "images/") || !strings.HasSuffix(p.key, ".png") {
		t.Fatalf("unexpected key %q", p.key)
	}
	if url != "http://cdn.local/portal/"+p.key {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestUploadRejects(t *testing.T) {
	svc := NewUploadService(&fakePutter{}, "portal", "http://cdn.local")
	ctx := context.Background()

	if _, err := svc.UploadImage(ctx, strings.NewReader(""), maxImageSize+1, "image/png"); !errors.Is(err, ErrFileTooBig) {
		t.Fatalf("expected ErrFileTooBig, got %v", err)
	}
	if _, err := svc.UploadImage(ctx, strings.NewReader(""), 1, "text/html"); !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
	if _, err := svc.UploadDoc(ctx, "run.sh", strings.NewReader(""), 1); !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
}

func TestUploadDocKeepsName(t *testing.T) {
	p := &fakePutter{}
	svc := NewUploadService(p, "portal", "http://cdn.local")

	url, err := svc.UploadDoc(context.Background(), `C:\Users\me\report.pdf`, strings.NewReader("%PDF"), 4)
	if err != nil {
		t.Fatalf("UploadDoc: %v", err)
	}
	if !strings.HasSuffix(p.key, "/report.pdf") || p.contentType != "application/pdf" {
		t.Fatalf("unexpected put: key=%q ct=%q", p.key, p.contentType)
	}
	if !strings.HasSuffix(url, "/report.pdf") {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestUploadBackendFailure(t *testing.T) {
	svc := NewUploadService(&fakePutter{err: errors.New("connection refused")}, "portal", "http://cdn.local")

	_, err := svc.UploadImage(context.Background(), strings.NewReader("x"), 1, "image/jpeg")
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
}

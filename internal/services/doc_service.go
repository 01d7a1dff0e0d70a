package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"newsportal/internal/models"
)

var docContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".doc":  "application/msword",
	".xls":  "application/vnd.ms-excel",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// DocContentType reports the download type for a file name; ok is false for
// extensions that are not served.
func DocContentType(name string) (string, bool) {
	ct, ok := docContentTypes[strings.ToLower(path.Ext(name))]
	return ct, ok
}

type DocStore interface {
	List(ctx context.Context) ([]*models.Doc, error)
	GetByID(ctx context.Context, id int) (*models.Doc, error)
	Create(ctx context.Context, d *models.Doc) error
	Update(ctx context.Context, d *models.Doc) error
	SoftDelete(ctx context.Context, id int) error
}

// DocDownload is an open stream of a stored document.
type DocDownload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

type DocService struct {
	docs       DocStore
	siteDomain string
	http       *http.Client
}

func NewDocService(docs DocStore, siteDomain string) *DocService {
	return &DocService{
		docs:       docs,
		siteDomain: strings.TrimRight(siteDomain, "/"),
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *DocService) List(ctx context.Context) ([]*models.Doc, error) {
	return s.docs.List(ctx)
}

func (s *DocService) Get(ctx context.Context, id int) (*models.Doc, error) {
	d, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *DocService) fileURL(fileURL string) string {
	if strings.HasPrefix(fileURL, "http://") || strings.HasPrefix(fileURL, "https://") {
		return fileURL
	}
	return s.siteDomain + "/" + strings.TrimLeft(fileURL, "/")
}

// Download fetches the stored file; the caller closes Body.
func (s *DocService) Download(ctx context.Context, id int) (*DocDownload, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := path.Base(strings.SplitN(d.FileURL, "?", 2)[0])
	ct, ok := DocContentType(name)
	if !ok {
		log.Printf("[docs][download] unsupported file doc_id=%d file=%q", id, name)
		return nil, ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.fileURL(d.FileURL), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch doc: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		log.Printf("[docs][download] upstream status=%d doc_id=%d", resp.StatusCode, id)
		return nil, ErrNotFound
	}
	return &DocDownload{FileName: name, ContentType: ct, Size: resp.ContentLength, Body: resp.Body}, nil
}

func checkDocForm(form *models.DocForm) error {
	form.Title = strings.TrimSpace(form.Title)
	form.Desc = strings.TrimSpace(form.Desc)
	form.FileURL = strings.TrimSpace(form.FileURL)
	form.ImageURL = strings.TrimSpace(form.ImageURL)

	var errs ValidationErrors
	if form.Title == "" || utf8.RuneCountInString(form.Title) > 150 {
		errs = append(errs, invalid("title", "title must be 1-150 characters"))
	}
	if utf8.RuneCountInString(form.Desc) > 200 {
		errs = append(errs, invalid("desc", "description must be at most 200 characters"))
	}
	if form.FileURL == "" {
		errs = append(errs, invalid("file_url", "file_url is required"))
	} else if _, ok := DocContentType(path.Base(form.FileURL)); !ok {
		errs = append(errs, invalid("file_url", "unsupported file type"))
	}
	if form.ImageURL == "" {
		errs = append(errs, invalid("image_url", "image_url is required"))
	}
	return errs.orNil()
}

func (s *DocService) Publish(ctx context.Context, authorID int, form models.DocForm) (*models.Doc, error) {
	if err := checkDocForm(&form); err != nil {
		return nil, err
	}
	d := &models.Doc{Title: form.Title, Desc: form.Desc, FileURL: form.FileURL, ImageURL: form.ImageURL, AuthorID: &authorID}
	if err := s.docs.Create(ctx, d); err != nil {
		return nil, storeErr("publish doc", err)
	}
	log.Printf("[admin][docs] published doc_id=%d", d.ID)
	return d, nil
}

func (s *DocService) Edit(ctx context.Context, id int, form models.DocForm) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := checkDocForm(&form); err != nil {
		return err
	}
	d.Title, d.Desc, d.FileURL, d.ImageURL = form.Title, form.Desc, form.FileURL, form.ImageURL
	if err := s.docs.Update(ctx, d); err != nil {
		return storeErr("edit doc", err)
	}
	return nil
}

func (s *DocService) Delete(ctx context.Context, id int) error {
	if err := s.docs.SoftDelete(ctx, id); err != nil {
		return storeErr("delete doc", err)
	}
	return nil
}

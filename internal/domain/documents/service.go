package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"carecircle/internal/domain/activity"
	"carecircle/internal/ports/blob"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("document not found")
	ErrForbidden    = errors.New("forbidden")
	ErrTooLarge     = errors.New("document too large")
)

const DefaultMaxBytes int64 = 20 << 20

// cuántos bytes mira mimetype para detectar el tipo
const sniffLen = 3072

type Service struct {
	repo     Repository
	blobs    blob.Store
	activity activity.Publisher
	maxBytes int64
	now      func() time.Time
}

func NewService(repo Repository, blobs blob.Store, pub activity.Publisher, maxBytes int64) *Service {
	if pub == nil {
		pub = activity.Nop{}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{
		repo:     repo,
		blobs:    blobs,
		activity: pub,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

type UploadInput struct {
	RecipientID    string
	Name           string
	Category       Category
	Description    string
	ContentType    string
	Body           io.Reader
	UploadedBy     string
	UploadedByName string
}

// Upload guarda el contenido en el blob store y después la metadata.
// Si la metadata falla, el blob se borra.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Document, error) {
	name := filepath.Base(strings.TrimSpace(in.Name))
	if strings.TrimSpace(in.RecipientID) == "" || strings.TrimSpace(in.UploadedBy) == "" || in.Body == nil {
		return Document{}, ErrInvalidInput
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		return Document{}, ErrInvalidInput
	}
	if in.Category == "" {
		in.Category = CategoryOther
	}
	if !in.Category.Valid() {
		return Document{}, ErrInvalidInput
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return Document{}, ErrInvalidInput
	}

	ct := strings.TrimSpace(in.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(head).String()
	}

	// +1 para poder distinguir "exactamente el límite" de "se pasó".
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), in.Body), s.maxBytes+1)

	d := Document{
		ID:             uuid.NewString(),
		RecipientID:    in.RecipientID,
		Name:           name,
		Category:       in.Category,
		Description:    strings.TrimSpace(in.Description),
		ContentType:    ct,
		UploadedBy:     in.UploadedBy,
		UploadedByName: strings.TrimSpace(in.UploadedByName),
		UploadedAt:     s.now(),
	}
	d.BlobKey = in.RecipientID + "/" + d.ID

	size, err := s.blobs.Put(ctx, d.BlobKey, body)
	if err != nil {
		return Document{}, fmt.Errorf("store blob: %w", err)
	}
	if size > s.maxBytes {
		_ = s.blobs.Delete(ctx, d.BlobKey)
		return Document{}, ErrTooLarge
	}
	d.SizeBytes = size

	if err := s.repo.Create(ctx, d); err != nil {
		_ = s.blobs.Delete(ctx, d.BlobKey)
		return Document{}, err
	}

	activity.Record(ctx, s.activity, activity.PublishInput{
		UserID:      d.UploadedBy,
		ActorName:   d.UploadedByName,
		RecipientID: d.RecipientID,
		Type:        activity.TypeDocument,
		Description: "Uploaded document: " + d.Name,
	})
	return d, nil
}

type ListFilter struct {
	Category Category // vacío = todas
	Query    string
}

// List: más recientes primero. Query busca en nombre y descripción.
func (s *Service) List(ctx context.Context, recipientID string, f ListFilter) ([]Document, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Document, 0, len(items))
	for _, d := range items {
		if f.Category != "" && d.Category != f.Category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(d.Name), q) &&
			!strings.Contains(strings.ToLower(d.Description), q) {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (s *Service) Get(ctx context.Context, recipientID, id string) (Document, error) {
	d, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if d.RecipientID != recipientID {
		return Document{}, ErrNotFound
	}
	return d, nil
}

// Open devuelve la metadata y el contenido; el caller cierra el reader.
func (s *Service) Open(ctx context.Context, recipientID, id string) (Document, io.ReadCloser, error) {
	d, err := s.Get(ctx, recipientID, id)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.blobs.Open(ctx, d.BlobKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return Document{}, nil, ErrNotFound
		}
		return Document{}, nil, fmt.Errorf("open blob: %w", err)
	}
	return d, rc, nil
}

// Delete: quien lo subió o el owner.
func (s *Service) Delete(ctx context.Context, recipientID, id, userID string, isOwner bool) error {
	d, err := s.Get(ctx, recipientID, id)
	if err != nil {
		return err
	}
	if !isOwner && d.UploadedBy != userID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, d.ID); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, d.BlobKey); err != nil && !errors.Is(err, blob.ErrNotFound) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

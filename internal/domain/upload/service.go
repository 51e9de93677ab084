package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/messhub/messhub-api/internal/pkg/imaging"
	"github.com/messhub/messhub-api/internal/pkg/storage"
)

// WakeChannel is the Redis channel the image worker listens on.
const WakeChannel = "uploads:wake"

var (
	ErrInvalidKind     = errors.New("invalid upload kind")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// DocumentSink receives student document URLs after a successful upload.
type DocumentSink interface {
	SetDocumentURLs(ctx context.Context, userID uuid.UUID, idCardURL, faceImageURL *string) error
}

// MenuImageSink receives menu item image URLs after a successful upload.
type MenuImageSink interface {
	AttachMenuImage(ctx context.Context, ownerUserID, itemID uuid.UUID, imageURL string) error
}

type Service struct {
	repo      *Repository
	store     storage.Storage
	redis     *redis.Client
	documents DocumentSink
	menus     MenuImageSink
}

func NewService(repo *Repository, store storage.Storage, redisClient *redis.Client, documents DocumentSink, menus MenuImageSink) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		redis:     redisClient,
		documents: documents,
		menus:     menus,
	}
}

// Store saves the original file, records it for thumbnail processing, and
// attaches the URL to the target record.
func (s *Service) Store(ctx context.Context, ownerUserID uuid.UUID, kind Kind, filename, contentType string, reader io.Reader, menuItemID *uuid.UUID) (*Upload, string, error) {
	if !IsValidKind(kind) {
		return nil, "", ErrInvalidKind
	}
	if !imaging.ValidateType(filename) {
		return nil, "", ErrUnsupportedType
	}

	ext := strings.ToLower(filepath.Ext(filename))
	id := uuid.New()
	key := fmt.Sprintf("%s/%s/%s%s", kind, ownerUserID, id, ext)

	if err := s.store.Put(ctx, key, reader, contentType); err != nil {
		return nil, "", err
	}

	now := time.Now()
	u := &Upload{
		ID:          id,
		OwnerUserID: ownerUserID,
		Kind:        kind,
		ObjectKey:   key,
		MimeType:    contentType,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	url := s.store.GetURL(key)
	if err := s.attach(ctx, ownerUserID, kind, url, menuItemID); err != nil {
		return nil, "", err
	}

	s.wakeWorker(ctx)

	log.Info().
		Str("upload_id", id.String()).
		Str("kind", string(kind)).
		Str("key", key).
		Msg("file uploaded")
	return u, url, nil
}

func (s *Service) attach(ctx context.Context, ownerUserID uuid.UUID, kind Kind, url string, menuItemID *uuid.UUID) error {
	switch kind {
	case KindIDCard:
		return s.documents.SetDocumentURLs(ctx, ownerUserID, &url, nil)
	case KindFaceImage:
		return s.documents.SetDocumentURLs(ctx, ownerUserID, nil, &url)
	case KindMenuImage:
		if menuItemID == nil {
			return errors.New("menu_item_id is required for menu images")
		}
		return s.menus.AttachMenuImage(ctx, ownerUserID, *menuItemID, url)
	}
	return ErrInvalidKind
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Upload, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) wakeWorker(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Publish(ctx, WakeChannel, "1").Err(); err != nil {
		log.Warn().Err(err).Msg("failed to wake image worker")
	}
}

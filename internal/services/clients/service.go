package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
	"github.com/Denner-Esteves/painel-approve/internal/pkg/validate"
	pgrepo "github.com/Denner-Esteves/painel-approve/internal/repo/postgres"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrValidation     = errors.New("invalid client payload")
)

type Store interface {
	Insert(ctx context.Context, name, logoURL string) (model.Client, error)
	GetByID(ctx context.Context, clientID int64) (model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	Update(ctx context.Context, clientID int64, name, logoURL string) error
}

type BlobStore interface {
	Upload(ctx context.Context, filename string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

// LogoUpload describes an incoming logo file. A nil upload keeps the stored
// logo untouched.
type LogoUpload struct {
	Filename    string
	Body        io.Reader
	Size        int64
	ContentType string
}

type Service struct {
	store  Store
	blobs  BlobStore
	logger *zap.Logger
}

func NewService(store Store, blobs BlobStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:  store,
		blobs:  blobs,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, name string, logo *LogoUpload) (model.Client, error) {
	name = strings.TrimSpace(name)
	if !validate.Required(name) {
		return model.Client{}, ErrValidation
	}

	logoURL, err := s.uploadLogo(ctx, logo)
	if err != nil {
		return model.Client{}, err
	}

	client, err := s.store.Insert(ctx, name, logoURL)
	if err != nil {
		return model.Client{}, fmt.Errorf("insert client: %w", err)
	}

	s.logger.Info("client created", zap.Int64("client_id", client.ID))

	return client, nil
}

func (s *Service) Get(ctx context.Context, clientID int64) (model.Client, error) {
	client, err := s.store.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrClientNotFound) {
			return model.Client{}, ErrClientNotFound
		}
		return model.Client{}, fmt.Errorf("load client: %w", err)
	}
	return client, nil
}

func (s *Service) List(ctx context.Context) ([]model.Client, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return list, nil
}

// Update renames the client and optionally replaces its logo. The old logo
// object is removed only after the new one is stored and persisted.
func (s *Service) Update(ctx context.Context, clientID int64, name string, logo *LogoUpload) (model.Client, error) {
	name = strings.TrimSpace(name)
	if !validate.Required(name) {
		return model.Client{}, ErrValidation
	}

	current, err := s.Get(ctx, clientID)
	if err != nil {
		return model.Client{}, err
	}

	logoURL, err := s.uploadLogo(ctx, logo)
	if err != nil {
		return model.Client{}, err
	}

	if err := s.store.Update(ctx, clientID, name, logoURL); err != nil {
		if errors.Is(err, pgrepo.ErrClientNotFound) {
			return model.Client{}, ErrClientNotFound
		}
		return model.Client{}, fmt.Errorf("update client: %w", err)
	}

	if logoURL != "" && current.LogoURL != "" && current.LogoURL != logoURL {
		if err := s.blobs.Delete(ctx, current.LogoURL); err != nil {
			s.logger.Warn("stale logo not removed",
				zap.Int64("client_id", clientID),
				zap.Error(err))
		}
	}

	return s.Get(ctx, clientID)
}

func (s *Service) uploadLogo(ctx context.Context, logo *LogoUpload) (string, error) {
	if logo == nil {
		return "", nil
	}
	if s.blobs == nil {
		return "", fmt.Errorf("blob storage is not configured")
	}

	logoURL, err := s.blobs.Upload(ctx, logo.Filename, logo.Body, logo.Size, logo.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}
	return logoURL, nil
}

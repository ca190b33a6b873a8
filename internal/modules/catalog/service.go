package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines category business logic.
type Service interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}
	c := &Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		// The UNIQUE index backs the existence check under concurrency.
		s.log.Error("create category failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes the category row only. Products keep the stale
// category string; the catalog is referenced by name, not by foreign key.
func (s *service) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

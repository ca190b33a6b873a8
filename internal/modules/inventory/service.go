package inventory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmwale/pos-backend/internal/storage"
)

// Service defines product business logic.
type Service interface {
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest, image io.Reader, imageName string) (*Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	UpdateCategory(ctx context.Context, id, category string) error
	UpdateImage(ctx context.Context, id string, image io.Reader, imageName string) (string, error)
	AddStock(ctx context.Context, id string, amount int) error
	DeleteProduct(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	files storage.FileStore
	log   *zap.Logger
}

func NewService(repo Repository, files storage.FileStore, log *zap.Logger) Service {
	return &service{repo: repo, files: files, log: log}
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetProductByBarcode(ctx context.Context, barcode string) (*Product, error) {
	p, err := s.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if n, err := s.repo.CountByBarcode(ctx, barcode); err == nil && n > 1 {
		s.log.Warn("barcode resolves to multiple products",
			zap.String("barcode", barcode), zap.Int("count", n))
	}
	return p, nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest, image io.Reader, imageName string) (*Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Barcode = strings.TrimSpace(req.Barcode)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	if n, err := s.repo.CountByBarcode(ctx, req.Barcode); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, ErrDuplicateBarcode
	}

	now := time.Now().UTC()
	p := &Product{
		ID:        uuid.New(),
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		Barcode:   req.Barcode,
		Stock:     req.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if image != nil {
		url, err := s.files.Save(image, imageName)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		p.Image = url
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if p.Image != "" {
			s.removeFile(p.Image)
		}
		s.log.Error("create product failed", zap.String("barcode", p.Barcode), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		p.Price = *req.Price
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Barcode != nil {
		barcode := strings.TrimSpace(*req.Barcode)
		if barcode == "" {
			return nil, fmt.Errorf("%w: barcode is required", ErrValidation)
		}
		if barcode != p.Barcode {
			if n, err := s.repo.CountByBarcode(ctx, barcode); err != nil {
				return nil, err
			} else if n > 0 {
				return nil, ErrDuplicateBarcode
			}
			p.Barcode = barcode
		}
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	// Stock moves through the conditional primitive, never a blind write:
	// a sale committed since the read above must not be undone.
	if req.Stock != nil {
		if delta := *req.Stock - p.Stock; delta != 0 {
			if err := s.repo.AdjustStock(ctx, p.ID.String(), delta); err != nil {
				return nil, err
			}
		}
		p.Stock = *req.Stock
	}
	return p, nil
}

func (s *service) UpdateCategory(ctx context.Context, id, category string) error {
	return s.repo.UpdateCategory(ctx, id, category)
}

// UpdateImage stores the new file before swapping the reference, then
// removes the replaced file best-effort.
func (s *service) UpdateImage(ctx context.Context, id string, image io.Reader, imageName string) (string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.files.Save(image, imageName)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	if err := s.repo.UpdateImage(ctx, id, url); err != nil {
		s.removeFile(url)
		return "", err
	}
	if p.Image != "" {
		s.removeFile(p.Image)
	}
	return url, nil
}

func (s *service) AddStock(ctx context.Context, id string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.repo.AdjustStock(ctx, id, amount)
}

// DeleteProduct removes the row and then the image file. A failed file
// removal is logged but does not fail the deletion.
func (s *service) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if p.Image != "" {
		s.removeFile(p.Image)
	}
	return nil
}

func (s *service) removeFile(url string) {
	if err := s.files.Remove(url); err != nil {
		s.log.Warn("remove image file failed", zap.String("image", url), zap.Error(err))
	}
}

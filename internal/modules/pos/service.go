package pos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmwale/pos-backend/internal/modules/inventory"
)

// Service defines checkout, refund and sales-listing business logic.
type Service interface {
	// Checkout sells the batch and returns the receipt id shared by its
	// ledger lines. Not idempotent: calling twice records two sales.
	Checkout(ctx context.Context, req CheckoutRequest) (string, error)
	Refund(ctx context.Context, receiptID string, resellable bool) (RefundType, int, error)
	ListSales(ctx context.Context) ([]*Sale, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Checkout(ctx context.Context, req CheckoutRequest) (string, error) {
	if len(req.Items) == 0 {
		return "", ErrEmptyCart
	}
	items := make([]CartItem, len(req.Items))
	for i, item := range req.Items {
		if item.Barcode == "" {
			return "", ErrBarcodeRequired
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if item.Quantity < 0 {
			return "", ErrInvalidQuantity
		}
		items[i] = item
	}

	receiptID := uuid.NewString()
	if err := s.repo.Checkout(ctx, receiptID, items); err != nil {
		if isClientError(err) {
			return "", err
		}
		s.log.Error("checkout failed", zap.String("receipt_id", receiptID), zap.Error(err))
		return "", err
	}
	s.log.Info("checkout complete",
		zap.String("receipt_id", receiptID), zap.Int("lines", len(items)))
	return receiptID, nil
}

func (s *service) Refund(ctx context.Context, receiptID string, resellable bool) (RefundType, int, error) {
	refundType := RefundDefective
	if resellable {
		refundType = RefundResellable
	}
	lines, err := s.repo.Refund(ctx, receiptID, refundType, resellable)
	if err != nil {
		if !errors.Is(err, ErrAlreadyRefundedOrNotFound) {
			s.log.Error("refund failed", zap.String("receipt_id", receiptID), zap.Error(err))
		}
		return "", 0, err
	}
	s.log.Info("refund complete", zap.String("receipt_id", receiptID),
		zap.String("refund_type", string(refundType)), zap.Int("lines", lines))
	return refundType, lines, nil
}

func (s *service) ListSales(ctx context.Context) ([]*Sale, error) {
	return s.repo.ListSales(ctx)
}

func isClientError(err error) bool {
	var notFound *ProductNotFoundError
	var insufficient *inventory.InsufficientStockError
	return errors.As(err, &notFound) || errors.As(err, &insufficient)
}

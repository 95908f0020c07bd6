package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

// Service is the read side over completed checkouts. Orders are only ever
// written by the checkout transaction.
type Service interface {
	ListOrders(ctx context.Context, params pagination.Params) (pagination.Page[OrderSummary], error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
}

type service struct {
	repo Repository
}

// NewService builds the order read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params) (pagination.Page[OrderSummary], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[OrderSummary]{}, err
	}
	return newOrderPage(page), nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.FindWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewOrderDetail(order), nil
}

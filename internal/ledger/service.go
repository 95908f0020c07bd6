package ledger

import (
	"context"
	"fmt"

	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
	"github.com/moonpos/moonpos-backend/pkg/types"
)

// Service exposes the read side of the accounting ledger.
type Service interface {
	ListEntries(ctx context.Context, dates types.DateRange, params pagination.Params) (pagination.Page[EntryDTO], error)
	TrialBalance(ctx context.Context, dates types.DateRange) (*TrialBalanceDTO, error)
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListEntries(ctx context.Context, dates types.DateRange, params pagination.Params) (pagination.Page[EntryDTO], error) {
	if dates.Inverted() {
		return pagination.Page[EntryDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, "start_date must not be after end_date")
	}
	page, err := s.repo.List(ctx, dates, params)
	if err != nil {
		return pagination.Page[EntryDTO]{}, err
	}
	return newEntryPage(page), nil
}

func (s *service) TrialBalance(ctx context.Context, dates types.DateRange) (*TrialBalanceDTO, error) {
	if dates.Inverted() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date must not be after end_date")
	}
	rows, err := s.repo.TrialBalance(ctx, dates)
	if err != nil {
		return nil, err
	}
	dto := newTrialBalanceDTO(rows)
	return &dto, nil
}

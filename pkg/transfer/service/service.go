package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/transfer-indexer/pkg/app/errors"
	"github.com/chainsafe/transfer-indexer/pkg/transfer"
	"github.com/chainsafe/transfer-indexer/pkg/transferstore"
)

const (
	msgAddressRequired = "Address parameter is required"
	msgInvalidParams   = "Invalid query parameters"
	msgFetchFailed     = "Failed to fetch transfers"
)

// Store is the narrow data-access interface for the transfer query service.
//
//go:generate mockery --name Store --output mocks --outpkg mocks --filename mock_store.go --with-expecter
type Store interface {
	ListByAddress(ctx context.Context, address string, page, limit int) (*transferstore.Page, error)
}

// Service defines the interface for querying indexed transfers
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	ListTransfers(ctx context.Context, req *transfer.ListRequest) (*transfer.ListResponse, error)
}

type transferService struct {
	store       Store
	validate    *validator.Validate
	maxPageSize int
	logger      *zap.Logger
}

// NewService creates a new transfer query service. maxPageSize <= 0 means no upper bound on limit.
func NewService(store Store, maxPageSize int, logger *zap.Logger) Service {
	return &transferService{
		store:       store,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// ListTransfers returns one page of transfers where the address is sender or recipient,
// newest block first.
func (s *transferService) ListTransfers(ctx context.Context, req *transfer.ListRequest) (*transfer.ListResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	address := transfer.NormalizeHex(req.Address)
	page, err := s.store.ListByAddress(ctx, address, req.Page, req.Limit)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("list transfers for %s: %w", address, err), msgFetchFailed)
	}

	transfers := page.Transfers
	if transfers == nil {
		transfers = []*transfer.Record{}
	}

	return &transfer.ListResponse{
		Transfers: transfers,
		Pagination: transfer.Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      page.Total,
			TotalPages: transfer.TotalPages(page.Total, req.Limit),
		},
	}, nil
}

func (s *transferService) validateRequest(req *transfer.ListRequest) error {
	if req == nil || strings.TrimSpace(req.Address) == "" {
		return apperrors.BadRequestError(nil, msgAddressRequired)
	}

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				details = append(details, describeFieldError(fe))
			}
			return apperrors.InvalidParamsError(err, msgInvalidParams, strings.Join(details, "; "))
		}
		return apperrors.InvalidParamsError(err, msgInvalidParams, err.Error())
	}

	if s.maxPageSize > 0 && req.Limit > s.maxPageSize {
		return apperrors.InvalidParamsError(nil, msgInvalidParams,
			fmt.Sprintf("limit must not exceed %d", s.maxPageSize))
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "eth_addr":
		return field + " must be a 0x-prefixed 20-byte hex address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "required":
		return field + " is required"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

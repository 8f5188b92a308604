package service

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/transfer-indexer/pkg/app/errors"
	apphttp "github.com/chainsafe/transfer-indexer/pkg/app/http"
	"github.com/chainsafe/transfer-indexer/pkg/transfer"
)

// HTTP exposes the transfer query service over HTTP
type HTTP struct {
	service      Service
	defaultLimit int
	logger       *zap.Logger
}

type listTransfersEnvelope struct {
	Success bool                   `json:"success"`
	Data    *transfer.ListResponse `json:"data"`
}

// RegisterRoutes registers the transfer query routes.
// defaultLimit overrides the built-in page size when positive.
func RegisterRoutes(r chi.Router, service Service, defaultLimit int, logger *zap.Logger) {
	h := &HTTP{
		service:      service,
		defaultLimit: defaultLimit,
		logger:       logger,
	}

	r.Get("/transfers", apphttp.HandleError(h.listTransfers))
}

// listTransfers handles GET /transfers?address=&page=&limit=
func (h *HTTP) listTransfers(w http.ResponseWriter, r *http.Request) error {
	req, err := h.parseListRequest(r)
	if err != nil {
		return err
	}

	resp, err := h.service.ListTransfers(r.Context(), req)
	if err != nil {
		if apperrors.IsInternalError(err) {
			h.logger.Error("Failed to list transfers", zap.String("address", req.Address), zap.Error(err))
		}
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, &listTransfersEnvelope{Success: true, Data: resp})
	return nil
}

func (h *HTTP) parseListRequest(r *http.Request) (*transfer.ListRequest, error) {
	req := &transfer.ListRequest{}
	if err := defaults.Set(req); err != nil {
		return nil, apperrors.GeneralError(err, "Failed to prepare request")
	}
	if h.defaultLimit > 0 {
		req.Limit = h.defaultLimit
	}

	query := r.URL.Query()
	req.Address = strings.TrimSpace(query.Get("address"))

	var invalid []string
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("page must be an integer, got %q", raw))
		} else {
			req.Page = page
		}
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("limit must be an integer, got %q", raw))
		} else {
			req.Limit = limit
		}
	}

	if req.Address == "" {
		return nil, apperrors.BadRequestError(nil, msgAddressRequired)
	}
	if len(invalid) > 0 {
		return nil, apperrors.InvalidParamsError(nil, msgInvalidParams, strings.Join(invalid, "; "))
	}

	return req, nil
}

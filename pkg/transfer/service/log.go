package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/chainsafe/transfer-indexer/pkg/app/errors"
	"github.com/chainsafe/transfer-indexer/pkg/transfer"
)

const serviceName = "TransferService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the transfer Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// ListTransfers wraps the service method with logging
func (ls *logService) ListTransfers(
	ctx context.Context,
	req *transfer.ListRequest,
) (resp *transfer.ListResponse, err error) {
	start := time.Now()

	defer func() {
		fields := []zap.Field{
			zap.String("service", serviceName),
			zap.String("method", "ListTransfers"),
			zap.Duration("duration", time.Since(start)),
		}
		if req != nil {
			fields = append(fields,
				zap.String("address", req.Address),
				zap.Int("page", req.Page),
				zap.Int("limit", req.Limit),
			)
		}

		switch {
		case err == nil:
			ls.logger.Debug("ListTransfers completed", append(fields,
				zap.Int("returned", len(resp.Transfers)),
				zap.Int("total", resp.Pagination.Total),
			)...)
		case apperrors.IsInternalError(err):
			ls.logger.Error("ListTransfers failed", append(fields, zap.Error(err))...)
		default:
			ls.logger.Info("ListTransfers rejected", append(fields, zap.Error(err))...)
		}
	}()

	return ls.svc.ListTransfers(ctx, req)
}

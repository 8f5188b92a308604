package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/transfer-indexer/pkg/config"
	"github.com/chainsafe/transfer-indexer/pkg/transfer"
	"github.com/chainsafe/transfer-indexer/pkg/transfer/service/mocks"
)

func TestServer_Router(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		ListTransfers(mock.Anything, mock.Anything).
		Return(&transfer.ListResponse{Transfers: []*transfer.Record{}}, nil).
		Once()

	s := NewServer(&config.Config{
		API: config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
	})
	router := s.setupRouter(nil, svc, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transfers?address=0x00000000000000000000000000000000000000aa", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// monitoring disabled
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

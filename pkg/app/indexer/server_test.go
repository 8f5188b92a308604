package indexer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/transfer-indexer/pkg/config"
)

func TestServer_Scan_RequiresBothRangeBounds(t *testing.T) {
	from := uint64(10)

	s := NewServer(&config.Config{}, Options{From: &from})
	_, err := s.scan(context.Background(), nil)
	require.Error(t, err)

	s = NewServer(&config.Config{}, Options{To: &from})
	_, err = s.scan(context.Background(), nil)
	require.Error(t, err)
}

func TestServer_Router_ReadyAfterInitialScan(t *testing.T) {
	s := NewServer(&config.Config{Monitoring: config.MonitoringConfig{Enabled: true}}, Options{Watch: true})
	router := s.newRouter(zap.NewNop())

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	require.Equal(t, http.StatusOK, get("/health").Code)
	require.Equal(t, http.StatusServiceUnavailable, get("/ready").Code)

	s.ready.Store(true)
	rec := get("/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "READY", rec.Body.String())

	require.Equal(t, http.StatusOK, get("/metrics").Code)
}

func TestServer_Router_MetricsDisabled(t *testing.T) {
	s := NewServer(&config.Config{}, Options{})
	router := s.newRouter(zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

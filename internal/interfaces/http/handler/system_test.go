package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err   error
	calls int
}

func (p *stubPinger) Ping(ctx context.Context) error {
	p.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	return p.err
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("ledger", "1.2.0", &stubPinger{})
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("ledger", "1.2.0", nil)
	c, w := newTestContext(http.MethodGet, "/api/system/info")

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool               `json:"success"`
		Data    SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ledger", resp.Data.Name)
	assert.Equal(t, "1.2.0", resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.NotEmpty(t, resp.Data.Uptime)
}

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name         string
		pingErr      error
		wantStatus   int
		wantSuccess  bool
		wantHealth   string
		wantDatabase string
	}{
		{
			name:         "store reachable",
			wantStatus:   http.StatusOK,
			wantSuccess:  true,
			wantHealth:   "healthy",
			wantDatabase: "ok",
		},
		{
			name:         "store down",
			pingErr:      errors.New("dial tcp 127.0.0.1:5432: connection refused"),
			wantStatus:   http.StatusServiceUnavailable,
			wantHealth:   "unhealthy",
			wantDatabase: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubPinger{err: tt.pingErr}
			h := NewSystemHandler("ledger", "test", store)
			router := gin.New()
			router.GET("/health", h.Health)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, 1, store.calls)
			assert.NotContains(t, w.Body.String(), "connection refused")
			var resp struct {
				Success bool           `json:"success"`
				Data    HealthResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantSuccess, resp.Success)
			assert.Equal(t, tt.wantHealth, resp.Data.Status)
			assert.Equal(t, tt.wantDatabase, resp.Data.Database)
			assert.NotEmpty(t, resp.Data.Time)
		})
	}
}

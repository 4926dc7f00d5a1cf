package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const voucherPayload = `{"type":"JV","date":"2026-07-01","items":[{"accountId":"a","debit":"100.00"},{"accountId":"b","credit":"100.00"}]}`

// newBodyLimitRouter echoes the number of bytes the handler managed to read
func newBodyLimitRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), BodyLimit(limit))
	echo := func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.String(http.StatusRequestEntityTooLarge, "truncated")
			return
		}
		c.String(http.StatusOK, "%d", len(b))
	}
	router.POST("/api/vouchers", echo)
	router.GET("/api/vouchers", echo)
	return router
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name       string
		limit      int64
		method     string
		body       string
		streamed   bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "voucher within limit",
			limit:      1024,
			method:     http.MethodPost,
			body:       voucherPayload,
			wantStatus: http.StatusOK,
			wantBody:   "114",
		},
		{
			name:       "body exactly at limit",
			limit:      int64(len(voucherPayload)),
			method:     http.MethodPost,
			body:       voucherPayload,
			wantStatus: http.StatusOK,
		},
		{
			name:       "streamed body over limit",
			limit:      32,
			method:     http.MethodPost,
			body:       voucherPayload,
			streamed:   true,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   "truncated",
		},
		{
			name:       "read without body",
			limit:      8,
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantBody:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newBodyLimitRouter(tt.limit)
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
				if tt.streamed {
					// hide the length so only the reader cap applies
					body = io.MultiReader(body)
				}
			}
			req := httptest.NewRequest(tt.method, "/api/vouchers", body)
			if tt.streamed {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestBodyLimit_DeclaredLengthRejected(t *testing.T) {
	router := newBodyLimitRouter(64)
	req := httptest.NewRequest(http.MethodPost, "/api/vouchers", strings.NewReader(voucherPayload))
	req.Header.Set(RequestIDHeader, "upload-7")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
	assert.Equal(t, "upload-7", resp.Error.RequestID)
}

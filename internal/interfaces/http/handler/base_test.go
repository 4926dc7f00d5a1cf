package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContext returns a context whose request carries a request ID
func newTestContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	c.Set(middleware.RequestIDKey, "req-1")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "not found",
			err:         shared.NotFound("godown"),
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "godown not found",
		},
		{
			name:       "duplicate",
			err:        shared.AlreadyExists("unit"),
			wantStatus: http.StatusConflict,
			wantCode:   "ALREADY_EXISTS",
		},
		{
			name:       "wrapped domain error",
			err:        fmt.Errorf("update: %w", shared.ErrConcurrencyConflict),
			wantStatus: http.StatusConflict,
			wantCode:   "CONCURRENCY_CONFLICT",
		},
		{
			name:        "unlisted invalid code",
			err:         shared.NewDomainError("INVALID_PERIOD", "End date must be after start date"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_PERIOD",
			wantMessage: "End date must be after start date",
		},
		{
			name:       "state violation",
			err:        shared.NewDomainError("INVALID_STATE", "Voucher is posted"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_STATE",
		},
		{
			name:       "forbidden",
			err:        shared.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:        "unknown error hides its cause",
			err:         errors.New(`pq: relation "godowns" does not exist`),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "/api/godowns")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "pq:")
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, resp.Error.Message)
			}
		})
	}
}

func TestBaseHandler_HandleError_Referenced(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodDelete, "/api/units/1")

	h.HandleError(c, &shared.ReferencedError{
		Entity: "Unit KG",
		References: []shared.Reference{
			{Resource: "voucher_items", Label: "voucher item(s)", Count: 3},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error struct {
			Code    string             `json:"code"`
			Message string             `json:"message"`
			Details []shared.Reference `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REFERENCED", resp.Error.Code)
	assert.Equal(t, "Unit KG cannot be deleted: referenced by 3 voucher item(s)", resp.Error.Message)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, int64(3), resp.Error.Details[0].Count)
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/")

	h.HandleError(c, nil)

	assert.Zero(t, w.Body.Len())
}

func TestBaseHandler_ParamUUID(t *testing.T) {
	h := &BaseHandler{}

	t.Run("valid", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/")
		c.Params = gin.Params{{Key: "id", Value: "6f1c2a9e-0b7d-4c1e-9d55-2b8f0e6c4a11"}}

		id, ok := h.ParamUUID(c, "id")
		assert.True(t, ok)
		assert.Equal(t, "6f1c2a9e-0b7d-4c1e-9d55-2b8f0e6c4a11", id.String())
	})

	t.Run("invalid", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/")
		c.Params = gin.Params{{Key: "companyId", Value: "acme"}}

		_, ok := h.ParamUUID(c, "companyId")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_ID", resp.Error.Code)
		assert.Equal(t, "Invalid companyId", resp.Error.Message)
	})
}

func TestBaseHandler_Responses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("created", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/")
		h.Created(c, gin.H{"code": "KG"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("meta", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/")
		h.SuccessWithMeta(c, []string{"a", "b"}, 250, 2, 100)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(250), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("no content", func(t *testing.T) {
		w := httptest.NewRecorder()
		router := gin.New()
		router.DELETE("/x", func(c *gin.Context) { h.NoContent(c) })
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/x", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Zero(t, w.Body.Len())
	})
}

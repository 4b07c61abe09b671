package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	printingapp "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/application/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared"
	infra "github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/dto"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setAuthContext simulates what the auth middleware stores for a request
func setAuthContext(c *gin.Context, tenantID, userID uuid.UUID) {
	c.Set(middleware.TenantIDKey, tenantID.String())
	if userID != uuid.Nil {
		c.Set(middleware.UserIDKey, userID.String())
	}
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetTenantAndUserID(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()

	c, _ := newTestContext()
	_, err := getTenantID(c)
	assert.Error(t, err)

	setAuthContext(c, tenantID, uuid.Nil)
	got, err := getTenantID(c)
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)

	anon, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, anon)

	setAuthContext(c, tenantID, userID)
	gotUser, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.SuccessWithMeta(c, []string{"a", "b"}, 100, 1, 10)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.TotalPages)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Created(c, map[string]string{"id": "123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()
	c.Set("request_id", "req-1")

	h.ErrorWithCode(c, dto.ErrCodePDFNotFound, "PDF not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "domain not found",
			err:     shared.NewDomainError("NOT_FOUND", "Print job not found"),
			status:  http.StatusNotFound,
			code:    dto.ErrCodeNotFound,
			message: "Print job not found",
		},
		{
			name:   "wrapped duplicate request",
			err:    fmt.Errorf("generate: %w", shared.ErrDuplicateRequest),
			status: http.StatusConflict,
			code:   dto.ErrCodeDuplicateRequest,
		},
		{
			name:   "thermal paper for a program",
			err:    shared.NewDomainError("INVALID_PAPER_SIZE", "Workout Program cannot be printed on RECEIPT_80MM"),
			status: http.StatusUnprocessableEntity,
			code:   dto.ErrCodeInvalidPaperSize,
		},
		{
			name:   "unknown document type",
			err:    shared.NewDomainError("INVALID_DOC_TYPE", "Invalid document type: INVOICE"),
			status: http.StatusBadRequest,
			code:   dto.ErrCodeInvalidDocType,
		},
		{
			name:    "render failure",
			err:     infra.NewRenderError(infra.ErrCodeRenderFailed, "composition failed", errors.New("boom")),
			status:  http.StatusInternalServerError,
			code:    dto.ErrCodeRenderFailed,
			message: "composition failed",
		},
		{
			name:   "storage failure",
			err:    fmt.Errorf("failed to store PDF: %w", infra.NewRenderError(infra.ErrCodeStorageFailed, "write failed", nil)),
			status: http.StatusServiceUnavailable,
			code:   dto.ErrCodeStorageFailed,
		},
		{
			name:   "deadline",
			err:    infra.NewRenderError(infra.ErrCodeRenderFailed, "composition failed", context.DeadlineExceeded),
			status: http.StatusGatewayTimeout,
			code:   dto.ErrCodeTimeout,
		},
		{
			name:    "unknown error",
			err:     errors.New("database is on fire"),
			status:  http.StatusInternalServerError,
			code:    dto.ErrCodeInternal,
			message: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Error.Message)
			}
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleError(c, &printingapp.ValidationError{
		Code: "INVALID_PAYLOAD",
		Fields: []printingapp.FieldError{
			{Field: "payload.number", Rule: "required"},
			{Field: "payload.items", Rule: "min", Param: "1"},
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidPayload, resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, dto.ValidationDetail{Field: "payload.number", Message: "This field is required"}, resp.Error.Details[0])
	assert.Equal(t, "Must be at least 1", resp.Error.Details[1].Message)
}

func TestHandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleError(c, nil)

	assert.False(t, c.Writer.Written())
	assert.Equal(t, http.StatusOK, w.Code)
}

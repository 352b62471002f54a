package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-ledger/internal/domain/salary"
)

type MockSalaryService struct {
	mock.Mock
}

func (m *MockSalaryService) Create(ctx context.Context, userID uuid.UUID, amount int64, paidOn time.Time) (*salary.Payment, error) {
	args := m.Called(ctx, userID, amount, paidOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salary.Payment), args.Error(1)
}

func (m *MockSalaryService) MarkReceived(ctx context.Context, userID, paymentID uuid.UUID) (*salary.Payment, error) {
	args := m.Called(ctx, userID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salary.Payment), args.Error(1)
}

func (m *MockSalaryService) List(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*salary.Payment, int64, error) {
	args := m.Called(ctx, userID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*salary.Payment), args.Get(1).(int64), args.Error(2)
}

func TestSalaryHandler_Create(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockSalaryService)
		handler := NewSalaryHandler(logger, mockService)

		paidOn := time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)
		created := &salary.Payment{
			ID:     uuid.New(),
			UserID: userID,
			Amount: 250_000,
			PaidOn: paidOn,
		}
		mockService.On("Create", mock.Anything, userID, int64(250_000), paidOn).Return(created, nil)

		router := setupTestRouter()
		router.POST("/salary-payments", handler.Create)

		jsonBody, _ := json.Marshal(CreateSalaryPaymentRequest{Amount: 250_000, PaidOn: "2026-03-25"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newAuthedRequest(http.MethodPost, "/salary-payments", jsonBody, userID))

		assert.Equal(t, http.StatusCreated, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))

		dataBytes, err := json.Marshal(topLevelResponse.Data)
		require.NoError(t, err)
		var responseBody SalaryPaymentResponse
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))

		assert.Equal(t, created.ID.String(), responseBody.ID)
		assert.Equal(t, int64(250_000), responseBody.Amount)
		assert.Equal(t, "2026-03-25", responseBody.PaidOn)
		assert.False(t, responseBody.Received)
		assert.Empty(t, responseBody.ReceivedAt)

		mockService.AssertExpectations(t)
	})

	t.Run("MalformedDate", func(t *testing.T) {
		mockService := new(MockSalaryService)
		handler := NewSalaryHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/salary-payments", handler.Create)

		jsonBody, _ := json.Marshal(CreateSalaryPaymentRequest{Amount: 250_000, PaidOn: "25.03.2026"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newAuthedRequest(http.MethodPost, "/salary-payments", jsonBody, userID))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ZeroAmountRejectedByBinding", func(t *testing.T) {
		mockService := new(MockSalaryService)
		handler := NewSalaryHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/salary-payments", handler.Create)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newAuthedRequest(http.MethodPost, "/salary-payments", []byte(`{"amount":0,"paid_on":"2026-03-25"}`), userID))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockSalaryService)
		handler := NewSalaryHandler(logger, mockService)

		mockService.On("Create", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil, assert.AnError)

		router := setupTestRouter()
		router.POST("/salary-payments", handler.Create)

		jsonBody, _ := json.Marshal(CreateSalaryPaymentRequest{Amount: 250_000, PaidOn: "2026-03-25"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newAuthedRequest(http.MethodPost, "/salary-payments", jsonBody, userID))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestSalaryHandler_MarkReceived(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	userID := uuid.New()
	paymentID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockSalaryService)
		handler := NewSalaryHandler(logger, mockService)

		receivedAt := time.Date(2026, 3, 25, 9, 30, 0, 0, time.UTC)
		received := &salary.Payment{
			ID:         paymentID,
			UserID:     userID,
			Amount:     250_000,
			PaidOn:     time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC),
			Received:   true,
			ReceivedAt: &receivedAt,
		}
		mockService.On("MarkReceived", mock.Anything, userID, paymentID).Return(received, nil)

		router := setupTestRouter()
		router.POST("/salary-payments/:id/received", handler.MarkReceived)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newAuthedRequest(http.MethodPost, "/salary-payments/"+paymentID.String()+"/received", nil, userID))

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))

		dataBytes, err := json.Marshal(topLevelResponse.Data)
		require.NoError(t, err)
		var responseBody SalaryPaymentResponse
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))

		assert.True(t, responseBody.Received)
		assert.Equal(t, receivedAt.Format(time.RFC3339), responseBody.ReceivedAt)

		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockSalaryService)
		handler := NewSalaryHandler(logger, mockService)

		mockService.On("MarkReceived", mock.Anything, userID, paymentID).
			Return(nil, salary.ErrPaymentNotFound{PaymentID: paymentID})

		router := setupTestRouter()
		router.POST("/salary-payments/:id/received", handler.MarkReceived)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newAuthedRequest(http.MethodPost, "/salary-payments/"+paymentID.String()+"/received", nil, userID))

		assert.Equal(t, http.StatusNotFound, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		require.NotNil(t, topLevelResponse.Error)
		assert.Equal(t, "NOT_FOUND", topLevelResponse.Error.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockSalaryService)
		handler := NewSalaryHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/salary-payments/:id/received", handler.MarkReceived)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newAuthedRequest(http.MethodPost, "/salary-payments/not-a-uuid/received", nil, userID))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "MarkReceived", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSalaryHandler_List(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockSalaryService)
		handler := NewSalaryHandler(logger, mockService)

		payments := []*salary.Payment{
			{ID: uuid.New(), UserID: userID, Amount: 250_000, PaidOn: time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC), Received: true},
			{ID: uuid.New(), UserID: userID, Amount: 250_000, PaidOn: time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)},
		}
		mockService.On("List", mock.Anything, userID, 1, 20).Return(payments, int64(2), nil)

		router := setupTestRouter()
		router.GET("/salary-payments", handler.List)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newAuthedRequest(http.MethodGet, "/salary-payments", nil, userID))

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		require.NotNil(t, topLevelResponse.Meta)
		assert.Equal(t, 2, topLevelResponse.Meta.TotalItems)

		dataBytes, err := json.Marshal(topLevelResponse.Data)
		require.NoError(t, err)
		var responseBody []SalaryPaymentResponse
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))
		require.Len(t, responseBody, 2)
		assert.True(t, responseBody[0].Received)
		assert.False(t, responseBody[1].Received)

		mockService.AssertExpectations(t)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockSalaryService)
		handler := NewSalaryHandler(logger, mockService)

		mockService.On("List", mock.Anything, userID, 1, 20).Return(nil, int64(0), assert.AnError)

		router := setupTestRouter()
		router.GET("/salary-payments", handler.List)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newAuthedRequest(http.MethodGet, "/salary-payments", nil, userID))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/potatotracker/internal/domain/transaction"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) List(ctx context.Context, chatID string) ([]transaction.Transaction, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Get(ctx context.Context, chatID string, id primitive.ObjectID) (*transaction.Transaction, error) {
	args := m.Called(ctx, chatID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	args := m.Called(ctx, tx)
	if args.Error(0) == nil {
		tx.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, chatID string, id primitive.ObjectID, tx *transaction.Transaction) error {
	args := m.Called(ctx, chatID, id, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Remove(ctx context.Context, chatID string, id primitive.ObjectID) error {
	args := m.Called(ctx, chatID, id)
	return args.Error(0)
}

func setupTestRouter(repo transaction.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	h := NewTransactionHandler(logger, repo)

	router := gin.New()
	router.POST("/transactions", h.Create)
	router.GET("/transactions/:chatId", h.List)
	router.GET("/transactions/:chatId/history", h.GetHistory)
	router.GET("/transactions/:chatId/:id", h.GetByID)
	router.PUT("/transactions/:chatId/:id", h.Update)
	router.DELETE("/transactions/:chatId/:id", h.Delete)
	return router
}

func TestTransactionHandler_List(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		list := []transaction.Transaction{
			{ID: primitive.NewObjectID(), ChatID: "42", Amount: 19.99, Type: transaction.TypeExpense,
				Date: time.Now(), Description: "coffee"},
		}
		mockRepo.On("List", mock.Anything, "42").Return(list, nil)

		router := setupTestRouter(mockRepo)
		req, _ := http.NewRequest(http.MethodGet, "/transactions/42", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response struct {
			Data []TransactionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "42", response.Data[0].ChatID)
		assert.Equal(t, 19.99, response.Data[0].Amount)
		assert.Equal(t, "coffee", response.Data[0].Description)
		mockRepo.AssertExpectations(t)
	})

	t.Run("StoreError", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		mockRepo.On("List", mock.Anything, "42").Return(nil, errors.New("db error"))

		router := setupTestRouter(mockRepo)
		req, _ := http.NewRequest(http.MethodGet, "/transactions/42", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestTransactionHandler_GetHistory(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	mockRepo.On("List", mock.Anything, "42").Return([]transaction.Transaction{}, nil)

	router := setupTestRouter(mockRepo)
	req, _ := http.NewRequest(http.MethodGet, "/transactions/42/history", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Data HistoryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "42", response.Data.ChatID)
	assert.Empty(t, response.Data.Transactions)
}

func TestTransactionHandler_GetByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		id := primitive.NewObjectID()
		tx := &transaction.Transaction{ID: id, ChatID: "42", Amount: 5, Type: transaction.TypeIncome, Date: time.Now()}
		mockRepo.On("Get", mock.Anything, "42", id).Return(tx, nil)

		router := setupTestRouter(mockRepo)
		req, _ := http.NewRequest(http.MethodGet, "/transactions/42/"+id.Hex(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("MalformedID", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)

		router := setupTestRouter(mockRepo)
		req, _ := http.NewRequest(http.MethodGet, "/transactions/42/not-an-object-id", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockRepo.AssertNotCalled(t, "Get")
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		id := primitive.NewObjectID()
		mockRepo.On("Get", mock.Anything, "42", id).Return(nil, transaction.ErrTransactionNotFound{ID: id})

		router := setupTestRouter(mockRepo)
		req, _ := http.NewRequest(http.MethodGet, "/transactions/42/"+id.Hex(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTransactionHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tx *transaction.Transaction) bool {
			return tx.ChatID == "42" && tx.Amount == 19.99 && tx.Type == transaction.TypeExpense
		})).Return(nil)

		reqBody := CreateTransactionRequest{
			ChatID:      "42",
			Amount:      19.99,
			Type:        "Expense",
			Description: "coffee",
		}
		jsonBody, _ := json.Marshal(reqBody)

		router := setupTestRouter(mockRepo)
		req, _ := http.NewRequest(http.MethodPost, "/transactions", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var response struct {
			Data TransactionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.NotEmpty(t, response.Data.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tx *transaction.Transaction) bool {
			return tx.Amount == 0
		})).Return(nil)

		// A zero magnitude is a valid record, not a missing field
		jsonBody, _ := json.Marshal(CreateTransactionRequest{
			ChatID:      "42",
			Amount:      0,
			Type:        "Expense",
			Description: "freebie",
		})

		router := setupTestRouter(mockRepo)
		req, _ := http.NewRequest(http.MethodPost, "/transactions", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidType", func(t *testing.T) {
		mockRepo := new(MockTransactionRepository)

		jsonBody, _ := json.Marshal(map[string]interface{}{
			"chat_id": "42",
			"amount":  10,
			"type":    "Transfer",
		})

		router := setupTestRouter(mockRepo)
		req, _ := http.NewRequest(http.MethodPost, "/transactions", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestTransactionHandler_Delete(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	id := primitive.NewObjectID()
	mockRepo.On("Remove", mock.Anything, "42", id).Return(nil)

	router := setupTestRouter(mockRepo)
	req, _ := http.NewRequest(http.MethodDelete, "/transactions/42/"+id.Hex(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	// Removal of an absent record is also 204: the store treats it as a no-op
	assert.Equal(t, http.StatusNoContent, rr.Code)
	mockRepo.AssertExpectations(t)
}

func TestTransactionHandler_Update(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	id := primitive.NewObjectID()
	mockRepo.On("Update", mock.Anything, "42", id, mock.MatchedBy(func(tx *transaction.Transaction) bool {
		return tx.Amount == 25 && tx.Type == transaction.TypeIncome
	})).Return(nil)

	reqBody := UpdateTransactionRequest{
		Amount: 25,
		Date:   time.Now(),
		Type:   "Income",
	}
	jsonBody, _ := json.Marshal(reqBody)

	router := setupTestRouter(mockRepo)
	req, _ := http.NewRequest(http.MethodPut, "/transactions/42/"+id.Hex(), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	mockRepo.AssertExpectations(t)
}

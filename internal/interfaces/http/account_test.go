package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"finsight/internal/domain/account"
)

// MockAccountRepo implements account.Repository for testing
type MockAccountRepo struct {
	GetByIDFunc      func(ctx context.Context, id int64) (*account.Account, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*account.Account, error)
	UpsertFunc       func(ctx context.Context, params account.UpsertParams) (*account.Account, error)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, account.ErrAccountNotFound
}

func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAccountRepo) Upsert(ctx context.Context, params account.UpsertParams) (*account.Account, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, params)
	}
	return nil, nil
}

func TestHandleListAccounts(t *testing.T) {
	tests := []struct {
		name           string
		authed         bool
		mockRepo       func() *MockAccountRepo
		expectedStatus int
	}{
		{
			name:   "Success",
			authed: true,
			mockRepo: func() *MockAccountRepo {
				return &MockAccountRepo{
					ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*account.Account, error) {
						return []*account.Account{
							{ID: 1, UserID: 1, Name: "Everyday Checking", AccountType: "depository", CurrencyCode: "USD"},
						}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unauthorized",
			authed:         false,
			mockRepo:       func() *MockAccountRepo { return &MockAccountRepo{} },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Repository Error",
			authed: true,
			mockRepo: func() *MockAccountRepo {
				return &MockAccountRepo{
					ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*account.Account, error) {
						return nil, errors.New("db error")
					},
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(tt.mockRepo())

			var req *http.Request
			if tt.authed {
				req = authedRequest(http.MethodGet, "/api/accounts", 1)
			} else {
				req = httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			}

			rr := httptest.NewRecorder()
			handler.HandleListAccounts(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finsight/internal/domain/user"
	"finsight/internal/shared/auth"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc     func(ctx context.Context, params user.CreateUserParams) (*user.User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	ListFunc       func(ctx context.Context, limit, offset int) ([]*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func TestHandleRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockRepo       func() *MockUserRepo
		expectedStatus int
	}{
		{
			name: "Success",
			body: `{"email":"ada@example.com","password":"correct horse"}`,
			mockRepo: func() *MockUserRepo {
				return &MockUserRepo{
					CreateFunc: func(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
						return &user.User{ID: 1, Email: params.Email, CreatedAt: time.Now()}, nil
					},
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Email Taken",
			body: `{"email":"ada@example.com","password":"correct horse"}`,
			mockRepo: func() *MockUserRepo {
				return &MockUserRepo{
					CreateFunc: func(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
						return nil, user.ErrEmailTaken
					},
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Missing Email",
			body:           `{"password":"correct horse"}`,
			mockRepo:       func() *MockUserRepo { return &MockUserRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Short Password",
			body:           `{"email":"ada@example.com","password":"short"}`,
			mockRepo:       func() *MockUserRepo { return &MockUserRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Body",
			body:           `not json`,
			mockRepo:       func() *MockUserRepo { return &MockUserRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(tt.mockRepo(), auth.NewJWT("test-secret"))

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.HandleRegister(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	stored := &user.User{ID: 1, Email: "ada@example.com", PasswordHash: hash, IsActive: true}

	tests := []struct {
		name           string
		body           string
		mockRepo       func() *MockUserRepo
		expectedStatus int
	}{
		{
			name: "Success",
			body: `{"email":"ada@example.com","password":"correct horse"}`,
			mockRepo: func() *MockUserRepo {
				return &MockUserRepo{
					GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
						return stored, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong Password",
			body: `{"email":"ada@example.com","password":"wrong horse"}`,
			mockRepo: func() *MockUserRepo {
				return &MockUserRepo{
					GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
						return stored, nil
					},
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unknown Email",
			body:           `{"email":"nobody@example.com","password":"correct horse"}`,
			mockRepo:       func() *MockUserRepo { return &MockUserRepo{} },
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(tt.mockRepo(), auth.NewJWT("test-secret"))

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.HandleLogin(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestLoginSetsAuthCookie(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{ID: 1, Email: email, PasswordHash: hash}, nil
		},
	}
	handler := NewAuthHandler(repo, auth.NewJWT("test-secret"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"correct horse"}`))
	rr := httptest.NewRecorder()
	handler.HandleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var found bool
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "access_token" && cookie.Value != "" && cookie.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("expected an HttpOnly access_token cookie")
	}
}

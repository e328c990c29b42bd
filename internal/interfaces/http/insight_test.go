package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"finsight/internal/domain/insight"
	"finsight/internal/shared/middleware"
)

// MockInsightService implements InsightService for testing
type MockInsightService struct {
	GenerateAllFunc func(ctx context.Context, userID int64) (*insight.GroupedInsights, error)
	ListGroupedFunc func(ctx context.Context, userID int64) (*insight.GroupedInsights, error)
}

func (m *MockInsightService) GenerateAll(ctx context.Context, userID int64) (*insight.GroupedInsights, error) {
	if m.GenerateAllFunc != nil {
		return m.GenerateAllFunc(ctx, userID)
	}
	return &insight.GroupedInsights{}, nil
}

func (m *MockInsightService) ListGrouped(ctx context.Context, userID int64) (*insight.GroupedInsights, error) {
	if m.ListGroupedFunc != nil {
		return m.ListGroupedFunc(ctx, userID)
	}
	return &insight.GroupedInsights{}, nil
}

func authedRequest(method, target string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestHandleListInsights(t *testing.T) {
	tests := []struct {
		name           string
		mockService    func() *MockInsightService
		authed         bool
		expectedStatus int
	}{
		{
			name: "Success",
			mockService: func() *MockInsightService {
				return &MockInsightService{
					ListGroupedFunc: func(ctx context.Context, userID int64) (*insight.GroupedInsights, error) {
						return &insight.GroupedInsights{Domains: []insight.DomainGroup{
							{Key: insight.DomainSpendingPatterns, Name: "Spending Patterns"},
						}}, nil
					},
				}
			},
			authed:         true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unauthorized",
			mockService:    func() *MockInsightService { return &MockInsightService{} },
			authed:         false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Service Error",
			mockService: func() *MockInsightService {
				return &MockInsightService{
					ListGroupedFunc: func(ctx context.Context, userID int64) (*insight.GroupedInsights, error) {
						return nil, errors.New("db error")
					},
				}
			},
			authed:         true,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInsightHandler(tt.mockService())

			var req *http.Request
			if tt.authed {
				req = authedRequest(http.MethodGet, "/api/insights", 1)
			} else {
				req = httptest.NewRequest(http.MethodGet, "/api/insights", nil)
			}

			rr := httptest.NewRecorder()
			handler.HandleListInsights(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleGenerateInsights(t *testing.T) {
	var calledWith int64
	service := &MockInsightService{
		GenerateAllFunc: func(ctx context.Context, userID int64) (*insight.GroupedInsights, error) {
			calledWith = userID
			return &insight.GroupedInsights{Domains: []insight.DomainGroup{
				{Key: insight.DomainFinancialHealth, Name: "Financial Health"},
			}}, nil
		},
	}
	handler := NewInsightHandler(service)

	req := authedRequest(http.MethodPost, "/api/insights/generate", 42)
	rr := httptest.NewRecorder()
	handler.HandleGenerateInsights(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if calledWith != 42 {
		t.Errorf("expected generation for user 42, got %d", calledWith)
	}

	var response insight.GroupedInsights
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(response.Domains) != 1 || response.Domains[0].Key != insight.DomainFinancialHealth {
		t.Errorf("unexpected response body: %+v", response)
	}
}

func TestHandleGenerateInsightsRejectsGet(t *testing.T) {
	handler := NewInsightHandler(&MockInsightService{})

	req := authedRequest(http.MethodGet, "/api/insights/generate", 1)
	rr := httptest.NewRecorder()
	handler.HandleGenerateInsights(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req RegisterRequest) (*UserSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserSummary), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) ResendVerification(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	args := m.Called(ctx, accountID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) GetCurrentUser(ctx context.Context, accountID uuid.UUID) (*Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockAuthService) DeactivateAccount(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLoginHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, slog.Default())

	t.Run("Success", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"email":    "test@example.com",
			"password": "password123",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		mockService.On("Login", mock.Anything, "test@example.com", "password123").
			Return(&LoginResponse{Token: "session-token", User: &UserSummary{Username: "testuser"}}, nil).Once()

		handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"email":    "test@example.com",
			"password": "wrong",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()

		mockService.On("Login", mock.Anything, "test@example.com", "wrong").
			Return(nil, ErrInvalidCredentials).Once()

		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Invalid credentials", body["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("DeactivatedAccount", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"email":    "gone@example.com",
			"password": "password123",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()

		mockService.On("Login", mock.Anything, "gone@example.com", "password123").
			Return(nil, ErrAccountDeactivated).Once()

		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Account is deactivated. Please contact support.", body["message"])
	})

	t.Run("MalformedBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegisterHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, slog.Default())

	t.Run("Created", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"username": "jdoe",
			"password": "password123",
			"email":    "jdoe@example.com",
			"role":     "student",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()

		mockService.On("Register", mock.Anything, mock.AnythingOfType("auth.RegisterRequest")).
			Return(&UserSummary{ID: uuid.New(), Username: "jdoe"}, nil).Once()

		handler.Register(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"username": "jdoe",
			"password": "password123",
			"email":    "jdoe@example.com",
			"role":     "student",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()

		mockService.On("Register", mock.Anything, mock.AnythingOfType("auth.RegisterRequest")).
			Return(nil, ErrDuplicateAccount).Once()

		handler.Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "User with this email or username already exists", body["message"])
	})
}

func TestGetCurrentUserHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService, slog.Default())

	t.Run("Authenticated", func(t *testing.T) {
		accountID := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		ctx := context.WithValue(req.Context(), UserIDKey, accountID.String())
		req = req.WithContext(ctx)
		w := httptest.NewRecorder()

		mockService.On("GetCurrentUser", mock.Anything, accountID).
			Return(&Account{ID: accountID, Username: "jdoe"}, nil).Once()

		handler.GetCurrentUser(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingContext", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		w := httptest.NewRecorder()

		handler.GetCurrentUser(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "GetCurrentUser")
	})
}

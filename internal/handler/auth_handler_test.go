package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taskvault/internal/model"
	"taskvault/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) GetMe(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		setupMock    func(*MockAuthService)
		expectedCode int
	}{
		{
			name: "valid registration",
			body: `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "alice", "alice@example.com", "password123").Return(&model.User{
					ID:       uuid.New(),
					Username: "alice",
					Email:    "alice@example.com",
				}, "signed-token", nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "username too short",
			body:         `{"username":"al","email":"alice@example.com","password":"password123"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid email",
			body:         `{"username":"alice","email":"not-an-email","password":"password123"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "password too short",
			body:         `{"username":"alice","email":"alice@example.com","password":"short"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: `{"username":"alice","email":"taken@example.com","password":"password123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "alice", "taken@example.com", "password123").Return(nil, "", service.ErrEmailTaken)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			body: `{"username":"taken","email":"alice@example.com","password":"password123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "taken", "alice@example.com", "password123").Return(nil, "", service.ErrUsernameTaken)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			mockService := new(MockAuthService)
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			h := NewAuthHandler(mockService)
			c, rec := newTaskContext(e, http.MethodPost, "/api/auth/register", tt.body, uuid.Nil)

			err := h.Register(c)
			if tt.expectedCode == http.StatusCreated {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusCreated, rec.Code)

				var resp AuthResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "signed-token", resp.Token)
				assert.Equal(t, "alice", resp.User.Username)
			} else {
				assert.Equal(t, tt.expectedCode, httpErrorCode(t, err))
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		setupMock    func(*MockAuthService)
		expectedCode int
	}{
		{
			name: "valid credentials",
			body: `{"email":"alice@example.com","password":"password123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice@example.com", "password123").Return(&model.User{
					ID:       uuid.New(),
					Username: "alice",
					Email:    "alice@example.com",
				}, "signed-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "bad credentials",
			body: `{"email":"alice@example.com","password":"wrong"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice@example.com", "wrong").Return(nil, "", service.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "missing password",
			body:         `{"email":"alice@example.com"}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			mockService := new(MockAuthService)
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			h := NewAuthHandler(mockService)
			c, rec := newTaskContext(e, http.MethodPost, "/api/auth/login", tt.body, uuid.Nil)

			err := h.Login(c)
			if tt.expectedCode == http.StatusOK {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)

				var resp AuthResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "signed-token", resp.Token)
			} else {
				assert.Equal(t, tt.expectedCode, httpErrorCode(t, err))
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	userID := uuid.New()

	e := newTestEcho()
	mockService := new(MockAuthService)
	mockService.On("GetMe", mock.Anything, userID).Return(&model.User{
		ID:       userID,
		Username: "alice",
		Email:    "alice@example.com",
	}, nil)

	h := NewAuthHandler(mockService)
	c, rec := newTaskContext(e, http.MethodGet, "/api/auth/me", "", userID)

	err := h.Me(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp MeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.User.ID)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	mockService := new(MockAuthService)

	h := NewAuthHandler(mockService)
	c, rec := newTaskContext(e, http.MethodPost, "/api/auth/logout", "", uuid.New())

	err := h.Logout(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

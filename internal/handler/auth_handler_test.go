package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/dto"
	"reviewhub/internal/service"
	"reviewhub/internal/validate"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SignupResponse), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignup_Returns200(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockService).RegisterRoutes(router.Group("/v1"))

	req := dto.SignupRequest{Username: "alice", Email: "alice@example.com"}
	mockService.On("Signup", mock.Anything, req).
		Return(&dto.SignupResponse{Username: "alice", Email: "alice@example.com"}, nil)

	w := postJSON(router, "/v1/auth/signup", req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	mockService.AssertExpectations(t)
}

func TestSignup_MissingFieldsRejectedByBinding(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockService).RegisterRoutes(router.Group("/v1"))

	w := postJSON(router, "/v1/auth/signup", gin.H{"username": "alice"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestSignup_FieldErrorsRenderedAsMap(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockService).RegisterRoutes(router.Group("/v1"))

	fieldErrs := validate.FieldErrors{}
	fieldErrs.Add("username", "user with this username already exists")
	mockService.On("Signup", mock.Anything, mock.Anything).Return(nil, fieldErrs)

	w := postJSON(router, "/v1/auth/signup", dto.SignupRequest{Username: "alice", Email: "a@b.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string][]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "username")
}

func TestToken_UnknownUserIs404(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockService).RegisterRoutes(router.Group("/v1"))

	mockService.On("IssueToken", mock.Anything, mock.Anything).Return(nil, service.ErrUserNotFound)

	w := postJSON(router, "/v1/auth/token", dto.TokenRequest{Username: "ghost", ConfirmationCode: "x"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToken_WrongCodeIs400(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockService).RegisterRoutes(router.Group("/v1"))

	fieldErrs := validate.FieldErrors{}
	fieldErrs.Add("confirmation_code", "invalid confirmation code")
	mockService.On("IssueToken", mock.Anything, mock.Anything).Return(nil, fieldErrs)

	w := postJSON(router, "/v1/auth/token", dto.TokenRequest{Username: "alice", ConfirmationCode: "WRONG"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "confirmation_code")
}

func TestToken_Success(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupRouter()
	NewAuthHandler(mockService).RegisterRoutes(router.Group("/v1"))

	mockService.On("IssueToken", mock.Anything, mock.Anything).
		Return(&dto.TokenResponse{Token: "signed.jwt.token"}, nil)

	w := postJSON(router, "/v1/auth/token", dto.TokenRequest{Username: "alice", ConfirmationCode: "GOOD"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signed.jwt.token")
}

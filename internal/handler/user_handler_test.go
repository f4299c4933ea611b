package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"taskhub/internal/handler"
	"taskhub/internal/middleware"
	"taskhub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// Мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) ListActive(ctx context.Context, limit int) ([]model.User, error) {
	args := m.Called(ctx, limit)
	users := args.Get(0)
	if users == nil {
		return nil, args.Error(1)
	}
	return users.([]model.User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, term string) ([]model.User, error) {
	args := m.Called(ctx, term)
	users := args.Get(0)
	if users == nil {
		return nil, args.Error(1)
	}
	return users.([]model.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	args := m.Called(ctx, id, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uint, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Мок репозитория уведомлений
type MockNoticeRepository struct {
	mock.Mock
}

func (m *MockNoticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockNoticeRepository) ListUnread(ctx context.Context, userID uint) ([]model.Notice, error) {
	args := m.Called(ctx, userID)
	notices := args.Get(0)
	if notices == nil {
		return nil, args.Error(1)
	}
	return notices.([]model.Notice), args.Error(1)
}

func (m *MockNoticeRepository) MarkRead(ctx context.Context, userID, noticeID uint) error {
	args := m.Called(ctx, userID, noticeID)
	return args.Error(0)
}

func (m *MockNoticeRepository) MarkAllRead(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func setupUserTest() (*gin.Engine, *MockUserRepository, *MockNoticeRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockRepo := new(MockUserRepository)
	mockNotices := new(MockNoticeRepository)
	userHandler := handler.NewUserHandler(mockRepo, mockNotices)

	r.POST("/users/register", userHandler.Register)
	r.POST("/users/login", userHandler.Login)

	// Маршруты с подставленным аутентифицированным пользователем
	authed := r.Group("/")
	authed.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uint(7))
		c.Set(middleware.IsAdminKey, false)
		c.Next()
	})
	authed.GET("/users/notifications", userHandler.GetNotifications)
	authed.PUT("/users/read-notification", userHandler.MarkNotificationRead)
	authed.PUT("/users/profile", userHandler.UpdateProfile)

	// Устанавливаем JWT_SECRET для тестов
	os.Setenv("JWT_SECRET", "test-secret")
	return r, mockRepo, mockNotices
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	router, mockRepo, _ := setupUserTest()

	// Мокаем методы репозитория
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	// Создаем тестовый запрос
	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/users/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response map[string]interface{}
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, true, response["status"])
	assert.NotEmpty(t, response["token"])

	// Email приводится к нижнему регистру перед сохранением и поиском
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "test@example.com", user["Email"])

	mockRepo.AssertExpectations(t)
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	// Arrange
	router, mockRepo, _ := setupUserTest()

	// Мокаем методы репозитория - пользователь уже существует
	existingUser := &model.User{
		ID:             3,
		Email:          "existing@example.com",
		HashedPassword: "hashed_password",
		Name:           "Existing User",
	}
	mockRepo.On("FindByEmail", mock.Anything, "existing@example.com").Return(existingUser, nil)

	// Создаем тестовый запрос
	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "existing@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/users/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "already exists")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, mockRepo, _ := setupUserTest()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             7,
		Email:          "test@example.com",
		HashedPassword: string(hashed),
		Name:           "Test User",
		IsActive:       true,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	// Создаем тестовый запрос
	reqBody := handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/users/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]interface{}
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response["token"])
	mockRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	router, mockRepo, _ := setupUserTest()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             7,
		Email:          "test@example.com",
		HashedPassword: string(hashed),
		Name:           "Test User",
		IsActive:       true,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	// Создаем тестовый запрос с неверным паролем
	reqBody := handler.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong-password",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/users/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid email or password.")
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	// Arrange
	router, mockRepo, _ := setupUserTest()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             7,
		Email:          "test@example.com",
		HashedPassword: string(hashed),
		Name:           "Test User",
		IsActive:       false,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	// Создаем тестовый запрос с верным паролем, но отключенным аккаунтом
	reqBody := handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/users/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "deactivated")
}

func TestGetNotifications(t *testing.T) {
	// Arrange
	router, _, mockNotices := setupUserTest()

	notices := []model.Notice{
		{ID: 2, UserID: 7, TaskID: 5, Text: "New task has been assigned to you", NotiType: "alert"},
	}
	mockNotices.On("ListUnread", mock.Anything, uint(7)).Return(notices, nil)

	req, _ := http.NewRequest("GET", "/users/notifications", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "New task has been assigned to you")
	mockNotices.AssertExpectations(t)
}

func TestMarkNotificationRead_All(t *testing.T) {
	// Arrange
	router, _, mockNotices := setupUserTest()

	mockNotices.On("MarkAllRead", mock.Anything, uint(7)).Return(nil)

	jsonBody, _ := json.Marshal(handler.MarkReadRequest{IsReadType: "all"})
	req, _ := http.NewRequest("PUT", "/users/read-notification", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	mockNotices.AssertExpectations(t)
	mockNotices.AssertNotCalled(t, "MarkRead")
}

func TestUpdateProfile_NonAdminIgnoresTargetID(t *testing.T) {
	// Arrange
	router, mockRepo, _ := setupUserTest()

	// Обычный пользователь редактирует только себя, даже указав чужой _id
	self := &model.User{ID: 7, Name: "Self", Email: "self@example.com", IsActive: true}
	mockRepo.On("GetByID", mock.Anything, uint(7)).Return(self, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	jsonBody, _ := json.Marshal(handler.ProfileUpdateRequest{ID: 3, Name: "Renamed"})
	req, _ := http.NewRequest("PUT", "/users/profile", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Renamed", self.Name)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, uint(3))
}

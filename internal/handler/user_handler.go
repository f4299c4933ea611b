package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	users   repository.UserRepositoryInterface
	notices repository.NoticeRepositoryInterface
}

func NewUserHandler(users repository.UserRepositoryInterface, notices repository.NoticeRepositoryInterface) *UserHandler {
	return &UserHandler{users: users, notices: notices}
}

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Title    string `json:"title"`
	Role     string `json:"role"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileUpdateRequest представляет обновление профиля пользователя
type ProfileUpdateRequest struct {
	ID    uint   `json:"_id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Role  string `json:"role"`
}

// PasswordChangeRequest представляет смену пароля текущего пользователя
type PasswordChangeRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ActivateRequest представляет включение или отключение аккаунта
type ActivateRequest struct {
	IsActive bool `json:"isActive"`
}

// MarkReadRequest представляет отметку уведомлений прочитанными
type MarkReadRequest struct {
	IsReadType string `json:"isReadType"`
	ID         uint   `json:"id"`
}

// Register создает нового пользователя и возвращает JWT-токен
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"status": false, "message": "User with this email already exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to hash password"})
		return
	}

	user := &model.User{
		Name:           req.Name,
		Title:          req.Title,
		Role:           req.Role,
		Email:          email,
		HashedPassword: string(hashed),
		IsAdmin:        req.IsAdmin,
		IsActive:       true,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to create user"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to generate token"})
		return
	}

	user.HashedPassword = ""
	c.JSON(http.StatusCreated, gin.H{"status": true, "token": token, "user": user})
}

// Login проверяет учётные данные и возвращает JWT-токен
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Invalid email or password."})
		return
	}

	// Деактивированный аккаунт не может войти даже с верным паролем
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"status": false, "message": "User account has been deactivated, contact the administrator"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Invalid email or password."})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to generate token"})
		return
	}

	user.HashedPassword = ""
	c.JSON(http.StatusOK, gin.H{"status": true, "token": token, "user": user})
}

// Logout завершает сессию; токен остаётся на совести клиента
func (h *UserHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Logout successful"})
}

// GetTeamList возвращает список пользователей с поиском по имени, роли и почте
func (h *UserHandler) GetTeamList(c *gin.Context) {
	search := c.Query("search")

	users, err := h.users.Search(c.Request.Context(), search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}

	for i := range users {
		users[i].HashedPassword = ""
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "users": users})
}

// UpdateProfile обновляет профиль; администратор может править чужой по _id
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, isAdmin, ok := currentUser(c)
	if !ok {
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	targetID := userID
	if isAdmin && req.ID != 0 {
		targetID = req.ID
	}

	user, err := h.users.GetByID(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Title != "" {
		user.Title = req.Title
	}
	if req.Role != "" {
		user.Role = req.Role
	}

	if err := h.users.Save(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}

	user.HashedPassword = ""
	c.JSON(http.StatusOK, gin.H{"status": true, "user": user, "message": "Profile updated successfully."})
}

// ChangePassword меняет пароль текущего пользователя
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to hash password"})
		return
	}

	if err := h.users.UpdatePassword(c.Request.Context(), userID, string(hashed)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Password changed successfully."})
}

// ActivateProfile включает или отключает аккаунт пользователя (только администратор)
func (h *UserHandler) ActivateProfile(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	if err := h.users.SetActive(c.Request.Context(), id, req.IsActive); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}

	message := "User account has been activated"
	if !req.IsActive {
		message = "User account has been disabled"
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": message})
}

// DeleteProfile удаляет пользователя (только администратор)
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "User deleted successfully."})
}

// GetNotifications возвращает непрочитанные уведомления текущего пользователя
func (h *UserHandler) GetNotifications(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	notices, err := h.notices.ListUnread(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "notices": notices})
}

// MarkNotificationRead отмечает одно или все уведомления прочитанными
func (h *UserHandler) MarkNotificationRead(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid request"})
		return
	}

	if req.IsReadType == "all" {
		if err := h.notices.MarkAllRead(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "Done"})
		return
	}

	if err := h.notices.MarkRead(c.Request.Context(), userID, req.ID); err != nil {
		if errors.Is(err, repository.ErrNoticeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Done"})
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Invalid user ID format"})
		return 0, false
	}
	return uint(id), true
}

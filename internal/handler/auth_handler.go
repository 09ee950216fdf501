package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/auth"
)

// AuthHandler issues JWTs for the single admin credential from config.
// The board is a small-team tool, there is no per-user account model.
type AuthHandler struct {
	username     string
	passwordHash []byte
	jwtSecret    string
}

func NewAuthHandler(username string, passwordHash []byte, jwtSecret string) *AuthHandler {
	return &AuthHandler{username: username, passwordHash: passwordHash, jwtSecret: jwtSecret}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Login checks the admin credentials and returns a bearer token for the
// mutating routes.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if req.Username != h.username ||
		bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(h.username, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token error"})
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

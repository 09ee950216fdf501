package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"taskboard/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	os.Setenv("JWT_EXPIRY_HOURS", "24")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	authHandler := handler.NewAuthHandler("admin", hash, "test-secret")
	r.POST("/login", authHandler.Login)

	return r
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router := setupAuthRouter(t)

	body, _ := json.Marshal(handler.LoginRequest{Username: "admin", Password: "password123"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.LoginResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	router := setupAuthRouter(t)

	body, _ := json.Marshal(handler.LoginRequest{Username: "admin", Password: "wrong"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid credentials")
}

func TestLogin_MissingFields(t *testing.T) {
	// Arrange
	router := setupAuthRouter(t)

	req, _ := http.NewRequest("POST", "/login", bytes.NewBufferString(`{"username": "admin"}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

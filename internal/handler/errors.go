package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/repository"
	"taskboard/internal/service"
)

// respondError maps core errors onto HTTP statuses: validation → 400
// with the joined field messages, missing entities → 404, everything
// else → a generic 500 with no internal detail leaked.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repository.ErrEmployeeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}

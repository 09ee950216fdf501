package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/service"
)

type KPIHandler struct {
	svc *service.KPIService
}

func NewKPIHandler(svc *service.KPIService) *KPIHandler {
	return &KPIHandler{svc: svc}
}

// Report returns the dashboard metrics computed from current store
// state.
func (h *KPIHandler) Report(c *gin.Context) {
	report, err := h.svc.Report(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

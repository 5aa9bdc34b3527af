package handler

import (
	"net/http"

	"tippool/internal/dto"
	"tippool/internal/middleware"
	"tippool/internal/service"

	"github.com/gin-gonic/gin"
)

type SoporteHandler struct{ svc service.SoporteService }

func NewSoporteHandler(svc service.SoporteService) *SoporteHandler {
	return &SoporteHandler{svc: svc}
}

// Reporte accepts a problem report and queues it for delivery to the
// support inbox. Always 202: delivery is asynchronous.
func (h *SoporteHandler) Reporte(c *gin.Context) {
	var req dto.ReporteProblemaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.svc.Reportar(c.Request.Context(), claims.Email, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}

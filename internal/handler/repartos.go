package handler

import (
	"net/http"

	"tippool/internal/apierror"
	"tippool/internal/dto"
	"tippool/internal/middleware"
	"tippool/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RepartosHandler struct{ svc service.RepartoService }

func NewRepartosHandler(svc service.RepartoService) *RepartosHandler {
	return &RepartosHandler{svc: svc}
}

// Calcular godoc
// @Summary      Calcular el reparto del dia
// @Description  Distribuye todas las propinas pendientes del dia entre los turnos cerrados, proporcional a horas x puntos de rol. Operacion atomica: o se reparte todo o nada.
// @Tags         repartos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CalcularRepartoRequest true "Fecha del reparto (YYYY-MM-DD)"
// @Success      200 {object} dto.RepartoResultado
// @Failure      400 {object} apierror.APIError
// @Router       /api/repartos/calcular [post]
func (h *RepartosHandler) Calcular(c *gin.Context) {
	var req dto.CalcularRepartoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Calcular(c.Request.Context(), req.Fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reparto calculado exitosamente",
		"data":    resp,
	})
}

// MisRepartos returns the authenticated employee's allocations, optionally
// bounded by ?desde=YYYY-MM-DD.
func (h *RepartosHandler) MisRepartos(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.MisRepartos(c.Request.Context(), usuarioID, c.Query("desde"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial is the manager view: every allocation of a day with owner names.
func (h *RepartosHandler) Historial(c *gin.Context) {
	resp, err := h.svc.Historial(c.Request.Context(), c.Query("fecha"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detalle returns one allocation together with its day's recomputed
// aggregates (pool total, employee count, points, breakdown by method).
func (h *RepartosHandler) Detalle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

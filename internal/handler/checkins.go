package handler

import (
	"net/http"

	"tippool/internal/middleware"
	"tippool/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckInsHandler struct{ svc service.CheckInService }

func NewCheckInsHandler(svc service.CheckInService) *CheckInsHandler {
	return &CheckInsHandler{svc: svc}
}

// Entrada godoc
// @Summary      Abrir turno (check-in)
// @Description  Registra la entrada del empleado autenticado. Falla si ya hay un turno abierto.
// @Tags         checkins
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.CheckInResponse
// @Failure      400 {object} apierror.APIError
// @Router       /api/checkins/entrada [post]
func (h *CheckInsHandler) Entrada(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Entrada(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Salida godoc
// @Summary      Cerrar turno (check-out)
// @Description  Cierra el turno abierto del empleado autenticado y calcula las horas trabajadas.
// @Tags         checkins
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CheckInResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/checkins/salida [post]
func (h *CheckInsHandler) Salida(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Salida(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CheckInsHandler) MisCheckins(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.MisCheckins(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorFecha is the attendance view for managers: every shift of a day.
func (h *CheckInsHandler) PorFecha(c *gin.Context) {
	resp, err := h.svc.PorFecha(c.Request.Context(), c.Param("fecha"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"tippool/internal/dto"
	"tippool/internal/service"

	"github.com/gin-gonic/gin"
)

type PropinasHandler struct{ svc service.PropinaService }

func NewPropinasHandler(svc service.PropinaService) *PropinasHandler {
	return &PropinasHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar propina
// @Description  Agrega una propina al pozo del dia. Queda pendiente hasta el cierre.
// @Tags         propinas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarPropinaRequest true "Monto y metodo de pago"
// @Success      201 {object} dto.PropinaResponse
// @Failure      400 {object} apierror.APIError
// @Router       /api/propinas [post]
func (h *PropinasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarPropinaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar returns tips filtered by the optional fecha / procesada query params.
func (h *PropinasHandler) Listar(c *gin.Context) {
	query := dto.ListarPropinasQuery{
		Fecha:     c.Query("fecha"),
		Procesada: c.Query("procesada"),
	}
	resp, err := h.svc.Listar(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PropinasHandler) Pendientes(c *gin.Context) {
	resp, err := h.svc.Pendientes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

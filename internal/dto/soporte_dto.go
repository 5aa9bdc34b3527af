package dto

type ReporteProblemaRequest struct {
	Tipo        string `json:"tipo"        validate:"required"`
	Descripcion string `json:"descripcion" validate:"required,min=10"`
	Dispositivo string `json:"dispositivo"`
	Version     string `json:"version"`
}

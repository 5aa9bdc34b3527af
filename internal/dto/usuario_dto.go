package dto

// ActualizarUsuarioRequest mutates profile fields. Empty/nil fields are left
// untouched.
type ActualizarUsuarioRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"  validate:"omitempty,email"`
	Rol      string `json:"rol"    validate:"omitempty,oneof=ENCARGADO MOZO"`
}

package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contrasena" validate:"required"`
}

// UserResponse salida de un usuario (sin contraseña).
type UserResponse struct {
	ID    int64  `json:"id_usuario"`
	Name  string `json:"nombre"`
	Email string `json:"correo"`
	Role  string `json:"rol"`
}

// LoginResponse token JWT y perfil del usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

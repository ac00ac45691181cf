package entity

// Roles con acceso al sistema.
const (
	RoleAdministrador = "administrador"
	RoleCajero        = "cajero"
)

// User usuario del sistema (vendedor en las ventas).
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt
	RoleID       int64
	RoleName     string
}

// CanLogin indica si el rol del usuario tiene acceso a la aplicación.
func (u *User) CanLogin() bool {
	return u.RoleName == RoleAdministrador || u.RoleName == RoleCajero
}

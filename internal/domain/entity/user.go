package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
	RoleVendedor = "vendedor"
)

// User representa un operador del backoffice. Puede administrar varias
// empresas; PreferredCompanyID guarda la última empresa activa para
// restaurarla al iniciar sesión (se valida contra la lista de empresas).
type User struct {
	ID                 string
	Email              string
	PasswordHash       string // bcrypt hash, nunca plano después de persistir
	Name               string
	Role               string // admin, operador, vendedor
	Status             string // active, inactive, suspended
	PreferredCompanyID string // "" = sin preferencia
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

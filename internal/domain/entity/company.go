package entity

import "time"

// Company representa una organización/tenant del sistema. Toda la
// configuración de módulos, settings y catálogo de productos está scoped a
// una Company; la "empresa activa" del workspace decide qué overlay aplica.
type Company struct {
	ID        string
	Name      string
	TaxID     string // identificación tributaria (NIT, RUT, etc.)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active informa si la empresa puede usarse como empresa activa del workspace.
func (c Company) Active() bool {
	return c.Status == "active"
}

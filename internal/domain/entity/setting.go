package entity

import "time"

// CompanySetting es un par clave/valor de configuración de la empresa
// (moneda, zona horaria, tema del storefront, etc.). Clave única por empresa.
type CompanySetting struct {
	CompanyID string
	Key       string
	Value     string
	UpdatedAt time.Time
}

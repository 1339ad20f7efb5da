package dto

import "time"

// UpsertSettingRequest entrada para crear/actualizar un setting de empresa.
type UpsertSettingRequest struct {
	Value string `json:"value" validate:"max=2000"`
}

// SettingResponse salida de un setting clave/valor.
type SettingResponse struct {
	CompanyID string    `json:"company_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingListResponse lista de settings de la empresa.
type SettingListResponse struct {
	Items []SettingResponse `json:"items"`
}

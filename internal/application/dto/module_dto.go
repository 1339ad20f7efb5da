package dto

import "time"

// CreateModuleRequest entrada para registrar un módulo en el catálogo global.
type CreateModuleRequest struct {
	Key          string            `json:"key" validate:"required,min=1,max=50"`
	Label        map[string]string `json:"label" validate:"required"`
	Icon         string            `json:"icon"`
	DefaultRoles []string          `json:"default_roles"`
	Order        int               `json:"order"`
}

// UpdateModuleRequest entrada para actualizar una definición (campos opcionales).
type UpdateModuleRequest struct {
	Label        map[string]string `json:"label"`
	Icon         *string           `json:"icon"`
	DefaultRoles []string          `json:"default_roles"`
	Order        *int              `json:"order"`
	Note         string            `json:"note"` // nota para el historial de auditoría
}

// ModuleHistoryEntryResponse una entrada del historial de un módulo.
type ModuleHistoryEntryResponse struct {
	Version   int       `json:"version"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

// ModuleDefinitionResponse salida de una definición del catálogo.
type ModuleDefinitionResponse struct {
	Key          string                       `json:"key"`
	Label        map[string]string            `json:"label"`
	Icon         string                       `json:"icon"`
	DefaultRoles []string                     `json:"default_roles"`
	Order        int                          `json:"order"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
	History      []ModuleHistoryEntryResponse `json:"history,omitempty"`
}

// ToggleModuleRequest entrada para mutar un flag booleano del overlay.
type ToggleModuleRequest struct {
	Field string `json:"field" validate:"required,oneof=enabled visible_in_sidebar use_analytics show_in_dashboard"`
	Value bool   `json:"value"`
}

// UpdateModuleSettingRequest entrada para un patch parcial del overlay.
type UpdateModuleSettingRequest struct {
	Enabled          *bool    `json:"enabled"`
	VisibleInSidebar *bool    `json:"visible_in_sidebar"`
	UseAnalytics     *bool    `json:"use_analytics"`
	ShowInDashboard  *bool    `json:"show_in_dashboard"`
	Roles            []string `json:"roles"`
	Order            *int     `json:"order"`
}

// ModuleSettingResponse salida de una fila del overlay por empresa.
type ModuleSettingResponse struct {
	CompanyID        string   `json:"company_id"`
	ModuleKey        string   `json:"module_key"`
	Enabled          bool     `json:"enabled"`
	VisibleInSidebar bool     `json:"visible_in_sidebar"`
	UseAnalytics     bool     `json:"use_analytics"`
	ShowInDashboard  bool     `json:"show_in_dashboard"`
	Roles            []string `json:"roles"`
	Order            *int     `json:"order"`
}

// EffectiveModuleResponse salida de la configuración efectiva (catálogo +
// overlay) que consume la navegación del frontend.
type EffectiveModuleResponse struct {
	Key              string   `json:"key"`
	Label            string   `json:"label"` // resuelto al locale pedido
	Icon             string   `json:"icon"`
	Enabled          bool     `json:"enabled"`
	VisibleInSidebar bool     `json:"visible_in_sidebar"`
	UseAnalytics     bool     `json:"use_analytics"`
	ShowInDashboard  bool     `json:"show_in_dashboard"`
	Roles            []string `json:"roles"`
	Order            int      `json:"order"`
}

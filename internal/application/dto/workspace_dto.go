package dto

// SwitchCompanyRequest entrada para cambiar la empresa activa del workspace.
type SwitchCompanyRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
}

// WorkspaceResponse estado actual del workspace del operador.
type WorkspaceResponse struct {
	ActiveCompanyID string                    `json:"active_company_id"`
	Company         *CompanyResponse          `json:"company,omitempty"`
	Modules         []EffectiveModuleResponse `json:"modules"`
}

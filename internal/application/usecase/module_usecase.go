package usecase

import (
	"context"

	"github.com/tu-usuario/tienda-admin/internal/application/dto"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// ModuleUseCase expone la administración del registro de módulos: catálogo
// global, overlay por empresa y configuración efectiva. Las mutaciones del
// overlay pasan por el gateway optimista del workspace del operador.
type ModuleUseCase struct {
	catalog  *modules.Catalog
	sessions *modules.SessionManager
}

// NewModuleUseCase construye el caso de uso.
func NewModuleUseCase(catalog *modules.Catalog, sessions *modules.SessionManager) *ModuleUseCase {
	return &ModuleUseCase{catalog: catalog, sessions: sessions}
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo global
// ──────────────────────────────────────────────────────────────────────────────

// ListCatalog lista las definiciones globales ordenadas.
func (uc *ModuleUseCase) ListCatalog() []dto.ModuleDefinitionResponse {
	defs := uc.catalog.List()
	out := make([]dto.ModuleDefinitionResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, toDefinitionResponse(d))
	}
	return out
}

// GetDefinition obtiene una definición por key.
func (uc *ModuleUseCase) GetDefinition(key string) (*dto.ModuleDefinitionResponse, error) {
	d, err := uc.catalog.GetByKey(key)
	if err != nil {
		return nil, err
	}
	resp := toDefinitionResponse(*d)
	return &resp, nil
}

// CreateDefinition registra un módulo nuevo en el catálogo global.
func (uc *ModuleUseCase) CreateDefinition(ctx context.Context, in dto.CreateModuleRequest, author string) (*dto.ModuleDefinitionResponse, error) {
	created, err := uc.catalog.Create(ctx, entity.ModuleDefinition{
		Key:          in.Key,
		Label:        in.Label,
		Icon:         in.Icon,
		DefaultRoles: in.DefaultRoles,
		Order:        in.Order,
	}, author)
	if err != nil {
		return nil, err
	}
	resp := toDefinitionResponse(*created)
	return &resp, nil
}

// UpdateDefinition aplica un patch parcial y registra la entrada de historial.
func (uc *ModuleUseCase) UpdateDefinition(ctx context.Context, key string, in dto.UpdateModuleRequest, author string) (*dto.ModuleDefinitionResponse, error) {
	updated, err := uc.catalog.Update(ctx, key, modules.DefinitionPatch{
		Label:        in.Label,
		Icon:         in.Icon,
		DefaultRoles: in.DefaultRoles,
		Order:        in.Order,
	}, author, in.Note)
	if err != nil {
		return nil, err
	}
	resp := toDefinitionResponse(*updated)
	return &resp, nil
}

// DeleteDefinition elimina la definición del catálogo (sin cascade al overlay).
func (uc *ModuleUseCase) DeleteDefinition(ctx context.Context, key string) error {
	return uc.catalog.Delete(ctx, key)
}

// ──────────────────────────────────────────────────────────────────────────────
// Overlay por empresa + configuración efectiva
// ──────────────────────────────────────────────────────────────────────────────

// ListSettings lista el overlay de la empresa activa del operador.
func (uc *ModuleUseCase) ListSettings(ctx context.Context, userID string) ([]dto.ModuleSettingResponse, error) {
	ws, err := uc.sessions.Workspace(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := ws.Overlay.ListForCompany(ws.ActiveCompanyID())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleSettingResponse, 0, len(rows))
	for _, st := range rows {
		out = append(out, toSettingResponse(st))
	}
	return out, nil
}

// Toggle muta un flag booleano del overlay vía el gateway optimista. Un
// resultado nil sin error significa que la confirmación llegó obsoleta (el
// operador ya cambió de empresa) y fue descartada.
func (uc *ModuleUseCase) Toggle(ctx context.Context, userID, moduleKey string, in dto.ToggleModuleRequest) (*dto.ModuleSettingResponse, error) {
	ws, err := uc.sessions.Workspace(ctx, userID)
	if err != nil {
		return nil, err
	}
	confirmed, err := ws.Gateway.Toggle(ctx, ws.ActiveCompanyID(), moduleKey, in.Field, in.Value)
	if err != nil || confirmed == nil {
		return nil, err
	}
	resp := toSettingResponse(*confirmed)
	return &resp, nil
}

// UpdateSetting aplica un patch parcial del overlay vía el gateway optimista.
func (uc *ModuleUseCase) UpdateSetting(ctx context.Context, userID, moduleKey string, in dto.UpdateModuleSettingRequest) (*dto.ModuleSettingResponse, error) {
	ws, err := uc.sessions.Workspace(ctx, userID)
	if err != nil {
		return nil, err
	}
	confirmed, err := ws.Gateway.Mutate(ctx, ws.ActiveCompanyID(), moduleKey, entity.ModuleSettingPatch{
		Enabled:          in.Enabled,
		VisibleInSidebar: in.VisibleInSidebar,
		UseAnalytics:     in.UseAnalytics,
		ShowInDashboard:  in.ShowInDashboard,
		Roles:            in.Roles,
		Order:            in.Order,
	})
	if err != nil || confirmed == nil {
		return nil, err
	}
	resp := toSettingResponse(*confirmed)
	return &resp, nil
}

// Effective resuelve la configuración efectiva de la empresa activa, con los
// labels resueltos al locale pedido.
func (uc *ModuleUseCase) Effective(ctx context.Context, userID, locale string) ([]dto.EffectiveModuleResponse, error) {
	ws, err := uc.sessions.Workspace(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toEffectiveResponses(ws.EffectiveModules(), locale), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión entidad -> DTO
// ──────────────────────────────────────────────────────────────────────────────

func toDefinitionResponse(d entity.ModuleDefinition) dto.ModuleDefinitionResponse {
	history := make([]dto.ModuleHistoryEntryResponse, 0, len(d.History))
	for _, h := range d.History {
		history = append(history, dto.ModuleHistoryEntryResponse{
			Version:   h.Version,
			Author:    h.Author,
			Timestamp: h.Timestamp,
			Note:      h.Note,
		})
	}
	return dto.ModuleDefinitionResponse{
		Key:          d.Key,
		Label:        d.Label,
		Icon:         d.Icon,
		DefaultRoles: d.DefaultRoles,
		Order:        d.Order,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		History:      history,
	}
}

func toSettingResponse(st entity.ModuleSetting) dto.ModuleSettingResponse {
	return dto.ModuleSettingResponse{
		CompanyID:        st.CompanyID,
		ModuleKey:        st.ModuleKey,
		Enabled:          st.Enabled,
		VisibleInSidebar: st.VisibleInSidebar,
		UseAnalytics:     st.UseAnalytics,
		ShowInDashboard:  st.ShowInDashboard,
		Roles:            st.Roles,
		Order:            st.Order,
	}
}

func toEffectiveResponses(mods []entity.EffectiveModule, locale string) []dto.EffectiveModuleResponse {
	out := make([]dto.EffectiveModuleResponse, 0, len(mods))
	for _, m := range mods {
		def := entity.ModuleDefinition{Key: m.Key, Label: m.Label}
		out = append(out, dto.EffectiveModuleResponse{
			Key:              m.Key,
			Label:            def.LabelFor(locale),
			Icon:             m.Icon,
			Enabled:          m.Enabled,
			VisibleInSidebar: m.VisibleInSidebar,
			UseAnalytics:     m.UseAnalytics,
			ShowInDashboard:  m.ShowInDashboard,
			Roles:            m.Roles,
			Order:            m.Order,
		})
	}
	return out
}

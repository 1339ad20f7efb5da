package modules

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// Workspace agrupa el estado scoped a empresa de un operador del backoffice:
// overlay de módulos, caches colaboradores, gateway de mutaciones y el
// coordinador de cambio de empresa. El catálogo global de módulos es
// compartido entre todos los workspaces.
type Workspace struct {
	catalog     *Catalog
	Overlay     *OverlayStore
	Settings    *SettingsCache
	CompanyInfo *CompanyInfoCache
	Products    *ProductCache
	Gateway     *Gateway
	Coordinator *Coordinator
}

// WorkspaceDeps son las fuentes que alimentan un workspace.
type WorkspaceDeps struct {
	Catalog   *Catalog
	Settings  SettingSource
	KVStore   SettingLister
	Companies interface {
		CompanyLister
		CompanyGetter
	}
	Products ProductLister
	Prefs    PreferenceStore
	Log      zerolog.Logger
}

// NewWorkspace arma el workspace y registra los stores en la cascada en el
// orden declarado: overlay de módulos, settings, ficha de empresa, catálogo
// de productos. Así los estados intermedios de un cambio de empresa muestran
// siempre menos features, nunca datos cruzados.
func NewWorkspace(deps WorkspaceDeps) *Workspace {
	overlay := NewOverlayStore(deps.Settings)
	settings := NewSettingsCache(deps.KVStore)
	info := NewCompanyInfoCache(deps.Companies)
	products := NewProductCache(deps.Products)

	coord := NewCoordinator(deps.Companies, deps.Prefs, deps.Log)
	coord.Register(overlay)
	coord.Register(settings)
	coord.Register(info)
	coord.Register(products)

	gateway := NewGateway(overlay, deps.Settings, coord.ActiveCompanyID, deps.Log)

	return &Workspace{
		catalog:     deps.Catalog,
		Overlay:     overlay,
		Settings:    settings,
		CompanyInfo: info,
		Products:    products,
		Gateway:     gateway,
		Coordinator: coord,
	}
}

// ActiveCompanyID devuelve la empresa activa del workspace.
func (w *Workspace) ActiveCompanyID() string {
	return w.Coordinator.ActiveCompanyID()
}

// EffectiveModules resuelve la configuración efectiva de la empresa activa.
// Nunca se cachea: se recalcula en cada lectura para evitar estados rancios.
// Sin empresa activa la lista es vacía (no es un error).
func (w *Workspace) EffectiveModules() []entity.EffectiveModule {
	companyID := w.Coordinator.ActiveCompanyID()
	if companyID == "" {
		return []entity.EffectiveModule{}
	}
	settings, err := w.Overlay.ListForCompany(companyID)
	if err != nil {
		// La empresa cambió entre la lectura del id y la del overlay; la vista
		// conservadora es no mostrar nada hasta la próxima lectura.
		return []entity.EffectiveModule{}
	}
	return Resolve(w.catalog.List(), settings)
}

// ModuleEnabled informa si un módulo está presente y habilitado en la
// configuración efectiva de la empresa activa.
func (w *Workspace) ModuleEnabled(key string) bool {
	for _, m := range w.EffectiveModules() {
		if m.Key == key {
			return m.Enabled
		}
	}
	return false
}

// AnalyticsEnabled informa si un módulo tiene analytics activo en la
// configuración efectiva (requiere módulo habilitado).
func (w *Workspace) AnalyticsEnabled(key string) bool {
	for _, m := range w.EffectiveModules() {
		if m.Key == key {
			return m.Enabled && m.UseAnalytics
		}
	}
	return false
}

// Restore restaura la empresa preferida persistida (ver Coordinator.Restore).
func (w *Workspace) Restore(ctx context.Context) error {
	return w.Coordinator.Restore(ctx)
}

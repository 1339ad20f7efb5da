package modules

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// OverlayStore guarda en memoria los ModuleSetting de la empresa activa del
// workspace. Es propiedad exclusiva de esa empresa: en un cambio de empresa el
// contenido se descarta por completo (Clear), nunca se oculta ni se mezcla.
type OverlayStore struct {
	mu        sync.RWMutex
	source    SettingSource
	companyID string // "" = sin empresa cargada
	rows      map[string]entity.ModuleSetting
}

// NewOverlayStore construye el store vacío.
func NewOverlayStore(source SettingSource) *OverlayStore {
	return &OverlayStore{
		source: source,
		rows:   make(map[string]entity.ModuleSetting),
	}
}

// Name identifica el store en la cascada del coordinador.
func (s *OverlayStore) Name() string { return "module-overlay" }

// Clear descarta todas las filas y la empresa dueña. Solo lo invoca el
// coordinador de cambio de empresa.
func (s *OverlayStore) Clear() {
	s.mu.Lock()
	s.companyID = ""
	s.rows = make(map[string]entity.ModuleSetting)
	s.mu.Unlock()
}

// Fetch carga el overlay completo de la empresa indicada desde la fuente.
func (s *OverlayStore) Fetch(ctx context.Context, companyID string) error {
	settings, err := s.source.FetchForCompany(ctx, companyID)
	if err != nil {
		return fmt.Errorf("cargar overlay de %s: %w", companyID, err)
	}
	rows := make(map[string]entity.ModuleSetting, len(settings))
	for _, st := range settings {
		// Última escritura gana si la fuente entregara duplicados; la clave
		// compuesta (company, module) debería impedirlo.
		rows[st.ModuleKey] = st
	}
	s.mu.Lock()
	s.companyID = companyID
	s.rows = rows
	s.mu.Unlock()
	return nil
}

// CompanyID devuelve la empresa dueña de las filas cargadas ("" si ninguna).
func (s *OverlayStore) CompanyID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.companyID
}

// ListForCompany devuelve las filas de la empresa pedida ordenadas por
// ModuleKey. Pedir otra empresa distinta de la cargada es un error de
// programación: los datos de otras empresas jamás son visibles.
func (s *OverlayStore) ListForCompany(companyID string) ([]entity.ModuleSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if companyID == "" || companyID != s.companyID {
		return nil, domain.ErrWrongCompany
	}
	out := make([]entity.ModuleSetting, 0, len(s.rows))
	for _, st := range s.rows {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleKey < out[j].ModuleKey })
	return out, nil
}

// get devuelve la fila del módulo y si existe. Uso interno del gateway.
func (s *OverlayStore) get(moduleKey string) (entity.ModuleSetting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.rows[moduleKey]
	return st, ok
}

// put reemplaza la fila del módulo. Uso interno del gateway (escritura
// optimista, confirmación y rollback).
func (s *OverlayStore) put(st entity.ModuleSetting) {
	s.mu.Lock()
	s.rows[st.ModuleKey] = st
	s.mu.Unlock()
}

// remove elimina la fila del módulo. Uso interno del gateway para revertir un
// upsert optimista que creó una fila donde antes no había ninguna.
func (s *OverlayStore) remove(moduleKey string) {
	s.mu.Lock()
	delete(s.rows, moduleKey)
	s.mu.Unlock()
}

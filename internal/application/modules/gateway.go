package modules

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// Nombres de campo mutables del overlay, usados por el guard de concurrencia
// y por el endpoint de toggle.
const (
	FieldEnabled          = "enabled"
	FieldVisibleInSidebar = "visible_in_sidebar"
	FieldUseAnalytics     = "use_analytics"
	FieldShowInDashboard  = "show_in_dashboard"
	FieldRoles            = "roles"
	FieldOrder            = "order"
)

// Gateway aplica mutaciones optimistas sobre el overlay de módulos.
//
// Protocolo por mutación:
//  1. La escritura se aplica al store en memoria de inmediato, antes de
//     cualquier confirmación, guardando el snapshot previo exacto.
//  2. En éxito, la fila autoritativa de la fuente sobreescribe el valor
//     optimista (puede diferir de lo adivinado).
//  3. En fallo, el campo vuelve exactamente al snapshot capturado al inicio,
//     no a un default recalculado, y el error se propaga al llamador.
//
// Solo una mutación por (empresa, módulo, campo) puede estar en vuelo; una
// segunda para la misma tripleta se rechaza con ErrMutationInProgress.
// Mutaciones sobre campos distintos de la misma fila sí pueden solaparse:
// para que ninguna pise a la otra, tanto la confirmación como el rollback
// operan campo por campo sobre la fila vigente, nunca sobre la fila completa.
//
// Si la empresa activa cambió mientras la confirmación estaba en vuelo, la
// respuesta se descarta en silencio: el overlay ya pertenece a otra empresa y
// no debe tocarse. El descarte se traza como ErrStaleResponse y el llamador
// recibe (nil, nil).
type Gateway struct {
	mu       sync.Mutex
	overlay  *OverlayStore
	source   SettingSource
	active   func() string
	inflight map[string]struct{}
	rows     map[string]*rowInFlight
	log      zerolog.Logger
}

// rowInFlight agrega el estado de las mutaciones en vuelo sobre una misma fila
// (empresa, módulo). created marca que la fila existe en memoria solo por
// escrituras optimistas que todavía no confirmaron: si todas fallan, la fila
// se elimina en vez de quedar con defaults que la fuente nunca tuvo.
type rowInFlight struct {
	pending int
	created bool
}

// NewGateway construye el gateway. active reporta la empresa activa actual
// del workspace (la provee el coordinador).
func NewGateway(overlay *OverlayStore, source SettingSource, active func() string, log zerolog.Logger) *Gateway {
	return &Gateway{
		overlay:  overlay,
		source:   source,
		active:   active,
		inflight: make(map[string]struct{}),
		rows:     make(map[string]*rowInFlight),
		log:      log,
	}
}

// Toggle muta un único flag booleano del módulo, identificado por nombre de
// campo. Es el camino de los switches de la UI de administración.
func (g *Gateway) Toggle(ctx context.Context, companyID, moduleKey, field string, value bool) (*entity.ModuleSetting, error) {
	var patch entity.ModuleSettingPatch
	switch field {
	case FieldEnabled:
		patch.Enabled = &value
	case FieldVisibleInSidebar:
		patch.VisibleInSidebar = &value
	case FieldUseAnalytics:
		patch.UseAnalytics = &value
	case FieldShowInDashboard:
		patch.ShowInDashboard = &value
	default:
		return nil, fmt.Errorf("%w: campo %q no es un flag", domain.ErrInvalidInput, field)
	}
	return g.Mutate(ctx, companyID, moduleKey, patch)
}

// Mutate aplica un patch parcial al overlay del módulo con el protocolo
// optimista descrito arriba. Devuelve la fila confirmada por la fuente, o
// (nil, nil) si la respuesta llegó obsoleta y fue descartada.
func (g *Gateway) Mutate(ctx context.Context, companyID, moduleKey string, patch entity.ModuleSettingPatch) (*entity.ModuleSetting, error) {
	if companyID == "" || moduleKey == "" {
		return nil, fmt.Errorf("%w: companyID y moduleKey son obligatorios", domain.ErrInvalidInput)
	}
	fields := patchFields(patch)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: el patch no modifica ningún campo", domain.ErrInvalidInput)
	}
	if companyID != g.active() {
		return nil, domain.ErrWrongCompany
	}

	// Reservar las tripletas (empresa, módulo, campo) y aplicar la escritura
	// optimista bajo el mismo lock: dos escrituras optimistas solapadas sobre
	// el mismo campo tendrían un orden de rollback ambiguo.
	g.mu.Lock()
	for _, f := range fields {
		if _, busy := g.inflight[tripleKey(companyID, moduleKey, f)]; busy {
			g.mu.Unlock()
			return nil, fmt.Errorf("%w: %s.%s", domain.ErrMutationInProgress, moduleKey, f)
		}
	}
	for _, f := range fields {
		g.inflight[tripleKey(companyID, moduleKey, f)] = struct{}{}
	}
	rk := rowKey(companyID, moduleKey)
	rs := g.rows[rk]
	if rs == nil {
		rs = &rowInFlight{}
		g.rows[rk] = rs
	}
	rs.pending++
	base, existed := g.overlay.get(moduleKey)
	if !existed {
		base = entity.ModuleSetting{CompanyID: companyID, ModuleKey: moduleKey}
		rs.created = true
	}
	g.overlay.put(patch.Apply(base))
	g.mu.Unlock()

	confirmed, err := g.source.Upsert(ctx, companyID, moduleKey, patch)

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, f := range fields {
		delete(g.inflight, tripleKey(companyID, moduleKey, f))
	}
	rs.pending--
	last := rs.pending == 0
	if last {
		delete(g.rows, rk)
	}

	if companyID != g.active() {
		// Respuesta obsoleta: el workspace ya está en otra empresa y el
		// overlay fue descartado y recargado. No tocar nada, no reportar.
		g.log.Debug().
			Err(domain.ErrStaleResponse).
			Str("company_id", companyID).
			Str("module", moduleKey).
			Msg("respuesta de mutación descartada por cambio de empresa")
		return nil, nil
	}

	if err != nil {
		// Revertir solo los campos de esta mutación sobre la fila vigente:
		// una mutación hermana de otro campo pudo confirmar mientras tanto y
		// su valor no debe perderse.
		if cur, ok := g.overlay.get(moduleKey); ok {
			g.overlay.put(copyFields(cur, base, fields))
		}
		if last && rs.created {
			g.overlay.remove(moduleKey)
		}
		return nil, fmt.Errorf("mutación de %s: %w", moduleKey, err)
	}

	rs.created = false // la fila ya existe en la fuente
	if last {
		g.overlay.put(*confirmed)
	} else if cur, ok := g.overlay.get(moduleKey); ok {
		// Mezcla por campo: la fila confirmada completa pisaría el valor
		// optimista de una hermana todavía en vuelo.
		merged := copyFields(cur, *confirmed, fields)
		merged.CreatedAt = confirmed.CreatedAt
		merged.UpdatedAt = confirmed.UpdatedAt
		g.overlay.put(merged)
	}
	out := *confirmed
	return &out, nil
}

// copyFields devuelve dst con los campos nombrados tomados de src.
func copyFields(dst, src entity.ModuleSetting, fields []string) entity.ModuleSetting {
	for _, f := range fields {
		switch f {
		case FieldEnabled:
			dst.Enabled = src.Enabled
		case FieldVisibleInSidebar:
			dst.VisibleInSidebar = src.VisibleInSidebar
		case FieldUseAnalytics:
			dst.UseAnalytics = src.UseAnalytics
		case FieldShowInDashboard:
			dst.ShowInDashboard = src.ShowInDashboard
		case FieldRoles:
			dst.Roles = append([]string(nil), src.Roles...)
		case FieldOrder:
			if src.Order != nil {
				v := *src.Order
				dst.Order = &v
			} else {
				dst.Order = nil
			}
		}
	}
	return dst
}

func rowKey(companyID, moduleKey string) string {
	return companyID + "|" + moduleKey
}

func tripleKey(companyID, moduleKey, field string) string {
	return companyID + "|" + moduleKey + "|" + field
}

func patchFields(p entity.ModuleSettingPatch) []string {
	var fields []string
	if p.Enabled != nil {
		fields = append(fields, FieldEnabled)
	}
	if p.VisibleInSidebar != nil {
		fields = append(fields, FieldVisibleInSidebar)
	}
	if p.UseAnalytics != nil {
		fields = append(fields, FieldUseAnalytics)
	}
	if p.ShowInDashboard != nil {
		fields = append(fields, FieldShowInDashboard)
	}
	if p.Roles != nil {
		fields = append(fields, FieldRoles)
	}
	if p.Order != nil {
		fields = append(fields, FieldOrder)
	}
	return fields
}

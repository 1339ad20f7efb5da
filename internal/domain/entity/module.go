package entity

import (
	"time"

	"golang.org/x/text/language"
)

// Claves de módulos conocidos de la plataforma. El catálogo puede crecer en
// runtime; estas constantes existen para las rutas que se protegen por código.
const (
	ModuleCatalogKey = "catalog"
	ModuleOrders     = "orders"
	ModuleAnalytics  = "analytics"
	ModuleCRM        = "crm"
	ModuleBilling    = "billing"
	ModulePurchasing = "purchasing"
)

// ModuleHistoryEntry es una entrada del historial de auditoría de un módulo.
// El historial es append-only: nunca se modifica una entrada existente.
type ModuleHistoryEntry struct {
	Version   int
	Author    string
	Timestamp time.Time
	Note      string
}

// ModuleDefinition es la definición global de un módulo en el catálogo.
// La Key es inmutable una vez creada y única en todo el sistema.
// Label mapea código de locale ("es", "en", ...) a texto visible; al menos
// un locale debe estar poblado.
type ModuleDefinition struct {
	Key          string
	Label        map[string]string
	Icon         string
	DefaultRoles []string
	Order        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	History      []ModuleHistoryEntry
}

// LabelFor devuelve la etiqueta del módulo para el locale pedido, usando
// matching BCP 47 (ej. "es-CO" resuelve a "es"). Si nada coincide devuelve
// la etiqueta de cualquier locale poblado, en orden determinista.
func (d ModuleDefinition) LabelFor(locale string) string {
	if len(d.Label) == 0 {
		return d.Key
	}
	tags := make([]language.Tag, 0, len(d.Label))
	codes := make([]string, 0, len(d.Label))
	for _, code := range sortedKeys(d.Label) {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}
	if len(tags) == 0 {
		return d.Key
	}
	matcher := language.NewMatcher(tags)
	_, idx, _ := matcher.Match(language.Make(locale))
	return d.Label[codes[idx]]
}

// Clone devuelve una copia profunda de la definición. El catálogo en memoria
// entrega copias para que los llamadores no muten el estado compartido.
func (d ModuleDefinition) Clone() ModuleDefinition {
	out := d
	out.Label = make(map[string]string, len(d.Label))
	for k, v := range d.Label {
		out.Label[k] = v
	}
	out.DefaultRoles = append([]string(nil), d.DefaultRoles...)
	out.History = append([]ModuleHistoryEntry(nil), d.History...)
	return out
}

// ModuleSetting es el overlay por empresa de un módulo: a lo sumo una fila
// viva por (CompanyID, ModuleKey). Puede referenciar una Key que todavía no
// existe en el catálogo; en ese caso queda inerte hasta que la definición
// aparezca.
type ModuleSetting struct {
	CompanyID        string
	ModuleKey        string
	Enabled          bool
	VisibleInSidebar bool
	UseAnalytics     bool
	ShowInDashboard  bool
	Roles            []string // vacío = heredar DefaultRoles del catálogo
	Order            *int     // nil = usar Order del catálogo
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ModuleSettingPatch describe una actualización parcial del overlay: solo los
// campos no-nil se sobreescriben, el resto conserva su valor previo.
type ModuleSettingPatch struct {
	Enabled          *bool
	VisibleInSidebar *bool
	UseAnalytics     *bool
	ShowInDashboard  *bool
	Roles            []string
	Order            *int
}

// Apply aplica el patch sobre una copia del setting y la devuelve.
func (p ModuleSettingPatch) Apply(s ModuleSetting) ModuleSetting {
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	if p.VisibleInSidebar != nil {
		s.VisibleInSidebar = *p.VisibleInSidebar
	}
	if p.UseAnalytics != nil {
		s.UseAnalytics = *p.UseAnalytics
	}
	if p.ShowInDashboard != nil {
		s.ShowInDashboard = *p.ShowInDashboard
	}
	if p.Roles != nil {
		s.Roles = append([]string(nil), p.Roles...)
	}
	if p.Order != nil {
		v := *p.Order
		s.Order = &v
	}
	return s
}

// EffectiveModule es la vista resuelta de un módulo para la empresa activa:
// catálogo + overlay. Nunca se persiste; se recalcula en cada lectura.
type EffectiveModule struct {
	Key              string
	Label            map[string]string
	Icon             string
	Enabled          bool
	VisibleInSidebar bool
	UseAnalytics     bool
	ShowInDashboard  bool
	Roles            []string
	Order            int
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// inserción simple; los mapas de labels tienen 2-3 entradas
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

package modules

import (
	"sort"

	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// Resolve mezcla el catálogo global con el overlay de la empresa activa y
// produce la configuración efectiva que consumen la navegación, el dashboard
// y el gating de analytics. Es una función pura: mismas entradas, misma
// salida ordenada.
//
// Reglas:
//   - Solo los módulos con fila de overlay son candidatos: sin opt-in
//     explícito de la empresa, el módulo no aparece (ni siquiera deshabilitado).
//   - Una fila de overlay cuya key no existe en el catálogo queda inerte.
//   - Cada flag toma el valor del overlay; el catálogo nunca habilita nada
//     por sí solo (default conservador: false).
//   - Roles vacíos en el overlay heredan los DefaultRoles del catálogo.
//   - Orden: Order del overlay si está definido, si no el del catálogo;
//     empates se rompen por Key para que la salida sea determinista.
func Resolve(defs []entity.ModuleDefinition, settings []entity.ModuleSetting) []entity.EffectiveModule {
	byKey := make(map[string]entity.ModuleSetting, len(settings))
	for _, st := range settings {
		// Última escritura gana ante duplicados (no deberían existir).
		byKey[st.ModuleKey] = st
	}

	out := make([]entity.EffectiveModule, 0, len(settings))
	for _, def := range defs {
		st, ok := byKey[def.Key]
		if !ok {
			continue
		}
		roles := st.Roles
		if len(roles) == 0 {
			roles = def.DefaultRoles
		}
		order := def.Order
		if st.Order != nil {
			order = *st.Order
		}
		label := make(map[string]string, len(def.Label))
		for loc, v := range def.Label {
			label[loc] = v
		}
		out = append(out, entity.EffectiveModule{
			Key:              def.Key,
			Label:            label,
			Icon:             def.Icon,
			Enabled:          st.Enabled,
			VisibleInSidebar: st.VisibleInSidebar,
			UseAnalytics:     st.UseAnalytics,
			ShowInDashboard:  st.ShowInDashboard,
			Roles:            append([]string(nil), roles...),
			Order:            order,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Key < out[j].Key
	})
	return out
}

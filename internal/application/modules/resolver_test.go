package modules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Resolve: mezcla catálogo + overlay en la configuración efectiva.
// ──────────────────────────────────────────────────────────────────────────────

// Sin fila de overlay, el módulo no aparece en la salida aunque exista en el
// catálogo: la presencia global jamás implica habilitación.
func TestResolve_SinOverlayNoAparece(t *testing.T) {
	defs := []entity.ModuleDefinition{def("bike", 1)}

	out := modules.Resolve(defs, nil)

	assert.Empty(t, out, "sin opt-in de la empresa la salida debe ser vacía")
}

// El overlay gana en todos los flags y en el orden; los roles vacíos heredan
// los DefaultRoles del catálogo.
func TestResolve_OverlayGana(t *testing.T) {
	d := def("bike", 1)
	d.DefaultRoles = []string{"admin", "vendedor"}
	st := setting("acme", "bike", true)
	st.Order = intPtr(5)
	st.VisibleInSidebar = true

	out := modules.Resolve([]entity.ModuleDefinition{d}, []entity.ModuleSetting{st})

	require.Len(t, out, 1)
	assert.Equal(t, "bike", out[0].Key)
	assert.True(t, out[0].Enabled, "enabled viene del overlay")
	assert.True(t, out[0].VisibleInSidebar)
	assert.False(t, out[0].UseAnalytics, "flag sin override queda en false")
	assert.Equal(t, 5, out[0].Order, "el order del overlay es autoritativo")
	assert.Equal(t, []string{"admin", "vendedor"}, out[0].Roles,
		"roles vacíos heredan los DefaultRoles del catálogo")
}

// Roles del overlay no vacíos reemplazan por completo a los del catálogo.
func TestResolve_RolesDelOverlayReemplazan(t *testing.T) {
	d := def("crm", 1)
	d.DefaultRoles = []string{"admin"}
	st := setting("acme", "crm", true)
	st.Roles = []string{"vendedor"}

	out := modules.Resolve([]entity.ModuleDefinition{d}, []entity.ModuleSetting{st})

	require.Len(t, out, 1)
	assert.Equal(t, []string{"vendedor"}, out[0].Roles)
}

// Una fila de overlay cuya key no existe en el catálogo queda inerte: no
// rompe el resolver y no aparece en la salida.
func TestResolve_OverlayHuerfanoEsInerte(t *testing.T) {
	out := modules.Resolve(
		[]entity.ModuleDefinition{def("bike", 1)},
		[]entity.ModuleSetting{
			setting("acme", "bike", true),
			setting("acme", "modulo-borrado", true),
		},
	)

	require.Len(t, out, 1)
	assert.Equal(t, "bike", out[0].Key)
}

// Orden final: order del overlay si existe, si no el del catálogo; empates
// se rompen por key. La salida debe ser asertable de forma exacta.
func TestResolve_OrdenDeterminista(t *testing.T) {
	defs := []entity.ModuleDefinition{def("zeta", 1), def("alfa", 1), def("beta", 9)}
	stBeta := setting("acme", "beta", true)
	stBeta.Order = intPtr(0) // override: beta pasa al frente

	out := modules.Resolve(defs, []entity.ModuleSetting{
		setting("acme", "zeta", true),
		setting("acme", "alfa", true),
		stBeta,
	})

	require.Len(t, out, 3)
	keys := []string{out[0].Key, out[1].Key, out[2].Key}
	assert.Equal(t, []string{"beta", "alfa", "zeta"}, keys,
		"beta por override 0, luego empate en 1 resuelto alfabéticamente")
}

// Determinismo: dos llamadas con las mismas entradas producen exactamente la
// misma salida ordenada.
func TestResolve_Idempotente(t *testing.T) {
	defs := []entity.ModuleDefinition{def("a", 2), def("b", 1), def("c", 3)}
	settings := []entity.ModuleSetting{
		setting("acme", "a", true),
		setting("acme", "b", false),
		setting("acme", "c", true),
	}

	first := modules.Resolve(defs, settings)
	second := modules.Resolve(defs, settings)

	assert.Equal(t, first, second)
}

// Enabled por defecto es false incluso con fila de overlay presente: solo un
// override explícito puede habilitar un módulo.
func TestResolve_EnabledConservador(t *testing.T) {
	out := modules.Resolve(
		[]entity.ModuleDefinition{def("bike", 1)},
		[]entity.ModuleSetting{setting("acme", "bike", false)},
	)

	require.Len(t, out, 1)
	assert.False(t, out[0].Enabled)
}

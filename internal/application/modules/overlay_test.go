package modules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
	"github.com/tu-usuario/tienda-admin/internal/domain"
)

// El overlay solo expone filas de la empresa cargada; pedir otra empresa es
// un error, nunca una fuga de datos.
func TestOverlay_AisladoPorEmpresa(t *testing.T) {
	source := newFakeSettingSource()
	source.seed(setting("acme", "bike", true))
	source.seed(setting("beta", "crm", true))

	overlay := modules.NewOverlayStore(source)
	require.NoError(t, overlay.Fetch(context.Background(), "acme"))

	rows, err := overlay.ListForCompany("acme")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bike", rows[0].ModuleKey)

	_, err = overlay.ListForCompany("beta")
	assert.ErrorIs(t, err, domain.ErrWrongCompany,
		"las filas de otra empresa jamás son visibles, ni siquiera transitoriamente")
}

// Clear descarta el contenido por completo; el store queda sin empresa dueña.
func TestOverlay_ClearDescartaTodo(t *testing.T) {
	source := newFakeSettingSource()
	source.seed(setting("acme", "bike", true))

	overlay := modules.NewOverlayStore(source)
	require.NoError(t, overlay.Fetch(context.Background(), "acme"))
	overlay.Clear()

	assert.Empty(t, overlay.CompanyID())
	_, err := overlay.ListForCompany("acme")
	assert.ErrorIs(t, err, domain.ErrWrongCompany)
}

// ListForCompany ordena por ModuleKey para salidas deterministas.
func TestOverlay_ListOrdenada(t *testing.T) {
	source := newFakeSettingSource()
	source.seed(setting("acme", "zeta", true))
	source.seed(setting("acme", "alfa", true))
	source.seed(setting("acme", "beta", true))

	overlay := modules.NewOverlayStore(source)
	require.NoError(t, overlay.Fetch(context.Background(), "acme"))

	rows, err := overlay.ListForCompany("acme")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "alfa", rows[0].ModuleKey)
	assert.Equal(t, "beta", rows[1].ModuleKey)
	assert.Equal(t, "zeta", rows[2].ModuleKey)
}

package modules_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

func newLoadedCatalog(t *testing.T, defs ...entity.ModuleDefinition) (*modules.Catalog, *fakeDefinitionSource) {
	t.Helper()
	source := newFakeDefinitionSource(defs...)
	catalog := modules.NewCatalog(source)
	require.NoError(t, catalog.Load(context.Background()))
	return catalog, source
}

// List ordena por Order y desempata por Key.
func TestCatalog_ListOrdenada(t *testing.T) {
	catalog, _ := newLoadedCatalog(t, def("zeta", 1), def("alfa", 1), def("beta", 0))

	out := catalog.List()

	require.Len(t, out, 3)
	assert.Equal(t, "beta", out[0].Key)
	assert.Equal(t, "alfa", out[1].Key)
	assert.Equal(t, "zeta", out[2].Key)
}

// Create rechaza keys duplicadas y definiciones sin ningún label.
func TestCatalog_CreateValidaciones(t *testing.T) {
	catalog, _ := newLoadedCatalog(t, def("bike", 1))

	_, err := catalog.Create(context.Background(), def("bike", 2), "ana")
	assert.ErrorIs(t, err, domain.ErrDuplicateKey, "key repetida debe rechazarse")

	sinLabel := entity.ModuleDefinition{Key: "nuevo"}
	_, err = catalog.Create(context.Background(), sinLabel, "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin label poblado debe rechazarse")
}

// Create inicializa el historial con la versión 1 y el autor.
func TestCatalog_CreateInicializaHistorial(t *testing.T) {
	catalog, _ := newLoadedCatalog(t)

	created, err := catalog.Create(context.Background(), def("crm", 3), "ana")
	require.NoError(t, err)

	require.Len(t, created.History, 1)
	assert.Equal(t, 1, created.History[0].Version)
	assert.Equal(t, "ana", created.History[0].Author)
}

// Update mezcla solo los campos provistos y agrega exactamente una entrada de
// historial; el historial nunca decrece.
func TestCatalog_UpdateParcialYHistorial(t *testing.T) {
	catalog, _ := newLoadedCatalog(t)
	_, err := catalog.Create(context.Background(), def("crm", 3), "ana")
	require.NoError(t, err)

	updated, err := catalog.Update(context.Background(), "crm",
		modules.DefinitionPatch{Order: intPtr(7)}, "luis", "reordenado")
	require.NoError(t, err)

	assert.Equal(t, 7, updated.Order)
	assert.Equal(t, map[string]string{"es": "Módulo crm"}, updated.Label,
		"los campos no provistos conservan su valor")
	require.Len(t, updated.History, 2)
	assert.Equal(t, 2, updated.History[1].Version)
	assert.Equal(t, "luis", updated.History[1].Author)
	assert.Equal(t, "reordenado", updated.History[1].Note)
	assert.False(t, updated.History[1].Timestamp.Before(updated.History[0].Timestamp),
		"el historial debe ser monótono en el tiempo")
}

// Dos updates concurrentes sobre la misma key se encadenan: el segundo parte
// de la base que dejó el primero, y ningún campo ni entrada de historial se
// pierde.
func TestCatalog_UpdatesConcurrentesSeEncadenan(t *testing.T) {
	catalog, source := newLoadedCatalog(t, def("bike", 1))

	block := make(chan struct{})
	source.blockUpdate = block

	iconDone := make(chan error, 1)
	go func() {
		icon := "icono-nuevo"
		_, err := catalog.Update(context.Background(), "bike",
			modules.DefinitionPatch{Icon: &icon}, "ana", "cambio de icono")
		iconDone <- err
	}()
	require.Eventually(t, func() bool { return source.updates() > 0 },
		time.Second, 5*time.Millisecond)

	// El segundo update queda en cola detrás del primero, todavía en vuelo.
	source.mu.Lock()
	source.blockUpdate = nil
	source.mu.Unlock()
	orderDone := make(chan error, 1)
	go func() {
		_, err := catalog.Update(context.Background(), "bike",
			modules.DefinitionPatch{Order: intPtr(9)}, "luis", "reordenado")
		orderDone <- err
	}()

	close(block)
	require.NoError(t, <-iconDone)
	require.NoError(t, <-orderDone)

	got, err := catalog.GetByKey("bike")
	require.NoError(t, err)
	assert.Equal(t, "icono-nuevo", got.Icon, "el cambio de icono no se pierde")
	assert.Equal(t, 9, got.Order, "el cambio de orden no se pierde")
	require.Len(t, got.History, 2)
	assert.Equal(t, 1, got.History[0].Version)
	assert.Equal(t, "ana", got.History[0].Author)
	assert.Equal(t, 2, got.History[1].Version, "las versiones crecen de forma monótona")
	assert.Equal(t, "luis", got.History[1].Author)
}

// Update de key inexistente devuelve NotFound.
func TestCatalog_UpdateInexistente(t *testing.T) {
	catalog, _ := newLoadedCatalog(t)

	_, err := catalog.Update(context.Background(), "fantasma",
		modules.DefinitionPatch{Order: intPtr(1)}, "ana", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Delete quita la definición del catálogo pero no toca los overlays: la
// configuración por empresa sobrevive a una recreación con la misma key.
func TestCatalog_DeleteSinCascade(t *testing.T) {
	catalog, _ := newLoadedCatalog(t, def("bike", 1))
	settings := newFakeSettingSource()
	settings.seed(setting("acme", "bike", true))

	require.NoError(t, catalog.Delete(context.Background(), "bike"))

	_, err := catalog.GetByKey("bike")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rows, err := settings.FetchForCompany(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "el overlay de la empresa no debe borrarse en cascada")

	// Recrear con la misma key restaura la configuración previa vía resolver.
	_, err = catalog.Create(context.Background(), def("bike", 1), "ana")
	require.NoError(t, err)
	out := modules.Resolve(catalog.List(), rows)
	require.Len(t, out, 1)
	assert.True(t, out[0].Enabled)
}

// Las copias que entrega el catálogo no permiten mutar el estado compartido.
func TestCatalog_ListEntregaCopias(t *testing.T) {
	catalog, _ := newLoadedCatalog(t, def("bike", 1))

	out := catalog.List()
	out[0].Label["es"] = "hackeado"
	out[0].Order = 99

	fresh, err := catalog.GetByKey("bike")
	require.NoError(t, err)
	assert.Equal(t, "Módulo bike", fresh.Label["es"])
	assert.Equal(t, 1, fresh.Order)
}

// LabelFor resuelve por matching BCP 47 y cae a un locale poblado.
func TestModuleDefinition_LabelFor(t *testing.T) {
	d := entity.ModuleDefinition{
		Key:   "bike",
		Label: map[string]string{"es": "Bicicletas", "en": "Bikes"},
	}

	assert.Equal(t, "Bicicletas", d.LabelFor("es-CO"))
	assert.Equal(t, "Bikes", d.LabelFor("en-US"))
	assert.NotEmpty(t, d.LabelFor("fr"), "locale desconocido cae a un label poblado")
}

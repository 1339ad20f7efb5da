package modules_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: gateway sobre un overlay cargado con empresa activa controlable.
// ──────────────────────────────────────────────────────────────────────────────

type activeCompany struct {
	mu sync.Mutex
	id string
}

func (a *activeCompany) get() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.id
}

func (a *activeCompany) set(id string) {
	a.mu.Lock()
	a.id = id
	a.mu.Unlock()
}

func newTestGateway(t *testing.T, source *fakeSettingSource, companyID string) (*modules.Gateway, *modules.OverlayStore, *activeCompany) {
	t.Helper()
	overlay := modules.NewOverlayStore(source)
	require.NoError(t, overlay.Fetch(context.Background(), companyID))
	active := &activeCompany{id: companyID}
	gw := modules.NewGateway(overlay, source, active.get, zerolog.Nop())
	return gw, overlay, active
}

func findSetting(t *testing.T, overlay *modules.OverlayStore, companyID, moduleKey string) (entity.ModuleSetting, bool) {
	t.Helper()
	rows, err := overlay.ListForCompany(companyID)
	require.NoError(t, err)
	for _, st := range rows {
		if st.ModuleKey == moduleKey {
			return st, true
		}
	}
	return entity.ModuleSetting{}, false
}

// ──────────────────────────────────────────────────────────────────────────────
// Camino feliz: optimista → confirmado
// ──────────────────────────────────────────────────────────────────────────────

func TestGateway_ToggleConfirmado(t *testing.T) {
	source := newFakeSettingSource()
	source.seed(setting("acme", "bike", false))
	gw, overlay, _ := newTestGateway(t, source, "acme")

	confirmed, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldEnabled, true)
	require.NoError(t, err)
	require.NotNil(t, confirmed)
	assert.True(t, confirmed.Enabled)

	st, ok := findSetting(t, overlay, "acme", "bike")
	require.True(t, ok)
	assert.True(t, st.Enabled, "el overlay debe quedar con el valor confirmado")
}

// La confirmación autoritativa sobreescribe el valor optimista aunque difiera
// de lo adivinado (la fuente puede completar otros campos).
func TestGateway_ConfirmacionAutoritativaGana(t *testing.T) {
	source := newFakeSettingSource()
	seeded := setting("acme", "bike", false)
	seeded.VisibleInSidebar = true // campo que el optimista local desconoce
	source.seed(seeded)
	gw, overlay, _ := newTestGateway(t, source, "acme")

	_, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldEnabled, true)
	require.NoError(t, err)

	st, ok := findSetting(t, overlay, "acme", "bike")
	require.True(t, ok)
	assert.True(t, st.VisibleInSidebar, "la fila confirmada trae el estado completo de la fuente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Rollback exacto ante fallo
// ──────────────────────────────────────────────────────────────────────────────

func TestGateway_RollbackRestauraSnapshotExacto(t *testing.T) {
	source := newFakeSettingSource()
	prior := setting("acme", "bike", true)
	prior.Order = intPtr(42)
	source.seed(prior)
	gw, overlay, _ := newTestGateway(t, source, "acme")
	source.failUpsert = true

	_, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldEnabled, false)
	require.Error(t, err, "el fallo de la fuente debe propagarse al llamador")

	st, ok := findSetting(t, overlay, "acme", "bike")
	require.True(t, ok)
	assert.True(t, st.Enabled, "enabled revierte exactamente al valor previo")
	require.NotNil(t, st.Order)
	assert.Equal(t, 42, *st.Order, "los demás campos del snapshot quedan intactos")
}

// Si la mutación creó la fila (no existía overlay), el rollback la elimina en
// vez de dejar una fila con defaults recalculados.
func TestGateway_RollbackEliminaFilaNueva(t *testing.T) {
	source := newFakeSettingSource()
	gw, overlay, _ := newTestGateway(t, source, "acme")
	source.failUpsert = true

	_, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldEnabled, true)
	require.Error(t, err)

	_, ok := findSetting(t, overlay, "acme", "bike")
	assert.False(t, ok, "la fila creada optimistamente debe desaparecer")
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard de concurrencia por tripleta (empresa, módulo, campo)
// ──────────────────────────────────────────────────────────────────────────────

func TestGateway_SegundaMutacionMismoCampoRechazada(t *testing.T) {
	source := newFakeSettingSource()
	source.seed(setting("acme", "bike", false))
	gw, _, _ := newTestGateway(t, source, "acme")

	block := make(chan struct{})
	source.blockUpsert = block

	done := make(chan error, 1)
	go func() {
		_, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldEnabled, true)
		done <- err
	}()

	// Esperar a que la primera mutación llegue a la fuente con la tripleta reservada.
	require.Eventually(t, func() bool { return source.upserts() > 0 },
		time.Second, 5*time.Millisecond)

	_, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldEnabled, false)
	assert.ErrorIs(t, err, domain.ErrMutationInProgress)

	// Un campo distinto del mismo módulo no está bloqueado.
	source.mu.Lock()
	source.blockUpsert = nil
	source.mu.Unlock()
	_, err = gw.Toggle(context.Background(), "acme", "bike", modules.FieldShowInDashboard, true)
	assert.NoError(t, err, "otra tripleta no debe verse afectada por el guard")

	close(block)
	require.NoError(t, <-done)
}

// Dos mutaciones en vuelo sobre campos distintos de la misma fila: la
// confirmación de una no pisa el valor optimista de la otra, y el rollback de
// la que falla revierte solo su propio campo.
func TestGateway_RollbackNoRevierteCampoHermanoConfirmado(t *testing.T) {
	source := newFakeSettingSource()
	source.seed(setting("acme", "bike", false))
	gw, overlay, _ := newTestGateway(t, source, "acme")

	block := make(chan struct{})
	source.blockUpsert = block

	done := make(chan error, 1)
	go func() {
		_, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldEnabled, true)
		done <- err
	}()
	require.Eventually(t, func() bool { return source.upserts() > 0 },
		time.Second, 5*time.Millisecond)

	// La hermana (otro campo) confirma mientras enabled sigue en vuelo.
	source.mu.Lock()
	source.blockUpsert = nil
	source.mu.Unlock()
	confirmed, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldVisibleInSidebar, true)
	require.NoError(t, err)
	require.NotNil(t, confirmed)

	st, ok := findSetting(t, overlay, "acme", "bike")
	require.True(t, ok)
	assert.True(t, st.Enabled, "la confirmación de sidebar no debe pisar el optimista de enabled")
	assert.True(t, st.VisibleInSidebar)

	// enabled falla: solo su campo vuelve atrás.
	source.mu.Lock()
	source.failUpsert = true
	source.mu.Unlock()
	close(block)
	require.Error(t, <-done)

	st, ok = findSetting(t, overlay, "acme", "bike")
	require.True(t, ok)
	assert.False(t, st.Enabled, "enabled revierte a su valor previo a la mutación")
	assert.True(t, st.VisibleInSidebar, "el rollback de enabled no revierte el sidebar ya confirmado")
}

// La fila creada optimistamente sobrevive al rollback de su creadora si otra
// mutación de la misma fila confirmó mientras tanto: la fuente ya la tiene.
func TestGateway_FilaNuevaSobreviveSiUnaHermanaConfirmo(t *testing.T) {
	source := newFakeSettingSource()
	gw, overlay, _ := newTestGateway(t, source, "acme")

	block := make(chan struct{})
	source.blockUpsert = block

	done := make(chan error, 1)
	go func() {
		_, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldEnabled, true)
		done <- err
	}()
	require.Eventually(t, func() bool { return source.upserts() > 0 },
		time.Second, 5*time.Millisecond)

	source.mu.Lock()
	source.blockUpsert = nil
	source.mu.Unlock()
	_, err := gw.Toggle(context.Background(), "acme", "bike", modules.FieldShowInDashboard, true)
	require.NoError(t, err)

	source.mu.Lock()
	source.failUpsert = true
	source.mu.Unlock()
	close(block)
	require.Error(t, <-done)

	st, ok := findSetting(t, overlay, "acme", "bike")
	require.True(t, ok, "la fila existe en la fuente por la confirmación de dashboard")
	assert.True(t, st.ShowInDashboard)
	assert.False(t, st.Enabled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard de staleness: confirmaciones que llegan tras un cambio de empresa
// ──────────────────────────────────────────────────────────────────────────────

func TestGateway_RespuestaObsoletaDescartada(t *testing.T) {
	source := newFakeSettingSource()
	source.seed(setting("acme", "bike", false))
	source.seed(setting("beta", "crm", true))
	gw, overlay, active := newTestGateway(t, source, "acme")

	block := make(chan struct{})
	source.blockUpsert = block

	done := make(chan struct{})
	var confirmed *entity.ModuleSetting
	var mutErr error
	go func() {
		confirmed, mutErr = gw.Toggle(context.Background(), "acme", "bike", modules.FieldEnabled, true)
		close(done)
	}()

	// Cambio de empresa mientras la confirmación está en vuelo: el overlay se
	// descarta y se recarga para la nueva empresa.
	require.Eventually(t, func() bool { return source.upserts() > 0 },
		time.Second, 5*time.Millisecond)
	active.set("beta")
	overlay.Clear()
	source.mu.Lock()
	source.blockUpsert = nil
	source.mu.Unlock()
	require.NoError(t, overlay.Fetch(context.Background(), "beta"))

	close(block)
	<-done

	assert.NoError(t, mutErr, "la respuesta obsoleta se recupera en silencio, no es un error de usuario")
	assert.Nil(t, confirmed, "no hay fila confirmada que reportar")

	rows, err := overlay.ListForCompany("beta")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "crm", rows[0].ModuleKey,
		"la confirmación tardía de acme no debe alterar ningún dato de beta")
}

// ──────────────────────────────────────────────────────────────────────────────
// Varios
// ──────────────────────────────────────────────────────────────────────────────

func TestGateway_EmpresaNoActivaRechazada(t *testing.T) {
	source := newFakeSettingSource()
	gw, _, _ := newTestGateway(t, source, "acme")

	_, err := gw.Toggle(context.Background(), "beta", "bike", modules.FieldEnabled, true)
	assert.ErrorIs(t, err, domain.ErrWrongCompany)
}

func TestGateway_PatchVacioRechazado(t *testing.T) {
	source := newFakeSettingSource()
	gw, _, _ := newTestGateway(t, source, "acme")

	_, err := gw.Mutate(context.Background(), "acme", "bike", entity.ModuleSettingPatch{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Idempotencia del upsert: aplicar dos veces el mismo patch deja la misma fila.
func TestGateway_UpsertIdempotente(t *testing.T) {
	source := newFakeSettingSource()
	gw, _, _ := newTestGateway(t, source, "acme")

	patch := entity.ModuleSettingPatch{Enabled: boolPtr(true), Order: intPtr(3)}
	first, err := gw.Mutate(context.Background(), "acme", "bike", patch)
	require.NoError(t, err)
	second, err := gw.Mutate(context.Background(), "acme", "bike", patch)
	require.NoError(t, err)

	assert.Equal(t, first.Enabled, second.Enabled)
	assert.Equal(t, *first.Order, *second.Order)
	assert.Equal(t, first.ModuleKey, second.ModuleKey)
}

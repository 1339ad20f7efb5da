package modules

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tu-usuario/tienda-admin/internal/domain"
)

// CompanyScopedStore es un store cuyo contenido pertenece a una sola empresa
// y debe vaciarse y recargarse por completo al cambiar la empresa activa.
// Los stores se registran en el coordinador en un orden fijo declarado; ese
// orden es el de la cascada, de modo que los estados intermedios siempre son
// más conservadores (menos features visibles) y nunca se muestran datos de la
// empresa anterior como si fueran de la nueva.
type CompanyScopedStore interface {
	Name() string
	Clear()
	Fetch(ctx context.Context, companyID string) error
}

// Coordinator orquesta el cambio de empresa activa del workspace: invalida
// todos los stores scoped a empresa y los recarga para la nueva, con
// deduplicación de cambios redundantes y reversión total ante fallos.
//
// Máquina de estados: Stable(A) -> Switching(A->B) -> Stable(B) | Stable(A).
// Ante cualquier fallo de recarga, el coordinador descarta lo que hubiera
// cargado de B, revierte la empresa activa a A y relanza la cascada de A:
// el usuario nunca ve un contexto a medio poblar.
type Coordinator struct {
	mu        sync.Mutex
	stores    []CompanyScopedStore
	companies CompanyLister
	prefs     PreferenceStore
	active    string
	switching bool
	target    string
	log       zerolog.Logger
}

// NewCoordinator construye el coordinador sin stores; registrarlos con
// Register en el orden de cascada deseado.
func NewCoordinator(companies CompanyLister, prefs PreferenceStore, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		companies: companies,
		prefs:     prefs,
		log:       log,
	}
}

// Register agrega un store a la cascada. El orden de registro es el orden en
// que se limpia y se recarga; colaboradores nuevos se registran sin tocar la
// lógica del coordinador.
func (c *Coordinator) Register(store CompanyScopedStore) {
	c.mu.Lock()
	c.stores = append(c.stores, store)
	c.mu.Unlock()
}

// ActiveCompanyID devuelve la empresa activa ("" si el workspace está vacío).
func (c *Coordinator) ActiveCompanyID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Switch cambia la empresa activa a companyID ejecutando la cascada completa.
// Cambiar a la empresa ya activa es un no-op; un cambio redundante hacia el
// mismo destino mientras otro está en vuelo también. La preferencia se
// persiste solo cuando la cascada terminó con éxito.
func (c *Coordinator) Switch(ctx context.Context, companyID string) error {
	if companyID == "" {
		return fmt.Errorf("%w: companyID es requerido", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	if companyID == c.active {
		c.mu.Unlock()
		return nil
	}
	if c.switching {
		target := c.target
		c.mu.Unlock()
		if target == companyID {
			return nil // cambio redundante, ya en vuelo
		}
		return fmt.Errorf("%w: cambio a %s en progreso", domain.ErrConflict, target)
	}
	prev := c.active
	c.switching = true
	c.target = companyID
	c.active = companyID
	c.mu.Unlock()

	c.log.Info().Str("from", prev).Str("to", companyID).Msg("cambio de empresa iniciado")

	err := c.cascade(ctx, companyID)

	if err != nil {
		// Descartar todo lo que hubiera llegado de la empresa nueva antes de
		// revertir: cero residuos de un contexto a medio cargar.
		c.mu.Lock()
		stores := append([]CompanyScopedStore(nil), c.stores...)
		c.active = prev
		c.mu.Unlock()
		for _, st := range stores {
			st.Clear()
		}

		if prev != "" {
			if rerr := c.cascade(ctx, prev); rerr != nil {
				c.log.Error().Err(rerr).Str("company_id", prev).
					Msg("falló la recarga de la empresa anterior tras revertir")
			}
		}
		c.mu.Lock()
		c.switching = false
		c.target = ""
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", domain.ErrSwitchFailed, err)
	}

	if perr := c.prefs.Save(ctx, companyID); perr != nil {
		// La preferencia es solo para restaurar la próxima sesión; no
		// invalida un cambio que ya cargó todos los datos.
		c.log.Warn().Err(perr).Str("company_id", companyID).
			Msg("no se pudo persistir la preferencia de empresa")
	}

	c.mu.Lock()
	c.switching = false
	c.target = ""
	c.mu.Unlock()

	c.log.Info().Str("company_id", companyID).Msg("cambio de empresa completado")
	return nil
}

// Restore carga la preferencia persistida al inicio de sesión. Un id que no
// figura en la lista de empresas conocidas (o no está activo) se descarta y
// el workspace queda sin empresa activa.
func (c *Coordinator) Restore(ctx context.Context) error {
	preferred, err := c.prefs.Load(ctx)
	if err != nil {
		return fmt.Errorf("leer preferencia de empresa: %w", err)
	}
	if preferred == "" {
		return nil
	}
	known, err := c.companies.List(ctx, 500, 0)
	if err != nil {
		return fmt.Errorf("listar empresas: %w", err)
	}
	valid := false
	for _, co := range known {
		if co.ID == preferred && co.Active() {
			valid = true
			break
		}
	}
	if !valid {
		c.log.Warn().Str("company_id", preferred).
			Msg("preferencia de empresa inválida, descartada")
		return nil
	}
	return c.Switch(ctx, preferred)
}

// cascade limpia y recarga cada store en el orden declarado. Los Clear y el
// lanzamiento de cada Fetch respetan ese orden; los Fetch corren de forma
// independiente y pueden completar en cualquier orden. Un fallo de un store
// no bloquea a los demás, pero el resultado solo es estable si todos
// reportaron éxito; si alguno falla se devuelve el error agregado.
func (c *Coordinator) cascade(ctx context.Context, companyID string) error {
	c.mu.Lock()
	stores := append([]CompanyScopedStore(nil), c.stores...)
	c.mu.Unlock()

	type result struct {
		name string
		err  error
	}
	results := make(chan result, len(stores))

	for _, st := range stores {
		st.Clear()
		go func(st CompanyScopedStore) {
			results <- result{name: st.Name(), err: st.Fetch(ctx, companyID)}
		}(st)
	}

	var errs []error
	for range stores {
		r := <-results
		if r.err != nil {
			c.log.Warn().Err(r.err).Str("store", r.name).Str("company_id", companyID).
				Msg("fallo al recargar store en la cascada")
			errs = append(errs, fmt.Errorf("%s: %w", r.name, r.err))
		}
	}
	return errors.Join(errs...)
}

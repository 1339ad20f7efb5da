package modules

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// Catalog es el catálogo global de módulos en memoria. Es compartido entre
// todos los workspaces (read-mostly); las escrituras hacen write-through a la
// fuente autoritativa y solo actualizan la memoria si la fuente aceptó.
//
// wmu serializa el ciclo completo leer-mezclar-escribir de cada escritura:
// dos updates concurrentes sobre la misma key parten así de bases encadenadas
// y ninguno pisa los campos ni la entrada de historial del otro. mu solo
// protege el mapa, para que las lecturas no esperen el I/O de la fuente.
type Catalog struct {
	mu     sync.RWMutex
	wmu    sync.Mutex
	source DefinitionSource
	defs   map[string]entity.ModuleDefinition
}

// DefinitionPatch describe una actualización parcial de una definición del
// catálogo: solo los campos no-nil se sobreescriben.
type DefinitionPatch struct {
	Label        map[string]string
	Icon         *string
	DefaultRoles []string
	Order        *int
}

// NewCatalog construye el catálogo vacío; llamar Load antes de servir tráfico.
func NewCatalog(source DefinitionSource) *Catalog {
	return &Catalog{
		source: source,
		defs:   make(map[string]entity.ModuleDefinition),
	}
}

// Load reemplaza el contenido en memoria con lo que reporta la fuente.
func (c *Catalog) Load(ctx context.Context) error {
	defs, err := c.source.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("cargar catálogo de módulos: %w", err)
	}
	fresh := make(map[string]entity.ModuleDefinition, len(defs))
	for _, d := range defs {
		fresh[d.Key] = d
	}
	c.mu.Lock()
	c.defs = fresh
	c.mu.Unlock()
	return nil
}

// List devuelve las definiciones ordenadas por Order y luego Key. Entrega
// copias: los llamadores no pueden mutar el estado compartido.
func (c *Catalog) List() []entity.ModuleDefinition {
	c.mu.RLock()
	out := make([]entity.ModuleDefinition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d.Clone())
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// GetByKey devuelve la definición o domain.ErrNotFound.
func (c *Catalog) GetByKey(key string) (*entity.ModuleDefinition, error) {
	c.mu.RLock()
	d, ok := c.defs[key]
	c.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := d.Clone()
	return &out, nil
}

// Create registra una nueva definición. Falla con domain.ErrDuplicateKey si la
// Key ya existe y con domain.ErrInvalidInput si no hay ningún label poblado.
func (c *Catalog) Create(ctx context.Context, def entity.ModuleDefinition, author string) (*entity.ModuleDefinition, error) {
	if def.Key == "" {
		return nil, fmt.Errorf("%w: key es requerida", domain.ErrInvalidInput)
	}
	if !hasLabel(def.Label) {
		return nil, fmt.Errorf("%w: se requiere al menos un label con locale", domain.ErrInvalidInput)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	c.mu.RLock()
	_, exists := c.defs[def.Key]
	c.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("%w: módulo %q", domain.ErrDuplicateKey, def.Key)
	}

	now := time.Now()
	def.CreatedAt = now
	def.UpdatedAt = now
	def.History = []entity.ModuleHistoryEntry{{
		Version:   1,
		Author:    author,
		Timestamp: now,
		Note:      "creación del módulo",
	}}

	if err := c.source.Create(ctx, &def); err != nil {
		return nil, fmt.Errorf("crear módulo %s: %w", def.Key, err)
	}

	c.mu.Lock()
	c.defs[def.Key] = def
	c.mu.Unlock()

	out := def.Clone()
	return &out, nil
}

// Update mezcla solo los campos provistos y agrega una entrada de historial
// con autor y timestamp. El historial nunca se reescribe, solo crece.
func (c *Catalog) Update(ctx context.Context, key string, patch DefinitionPatch, author, note string) (*entity.ModuleDefinition, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	c.mu.RLock()
	current, ok := c.defs[key]
	c.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}

	def := current.Clone()
	if patch.Label != nil {
		if !hasLabel(patch.Label) {
			return nil, fmt.Errorf("%w: se requiere al menos un label con locale", domain.ErrInvalidInput)
		}
		def.Label = make(map[string]string, len(patch.Label))
		for loc, v := range patch.Label {
			def.Label[loc] = v
		}
	}
	if patch.Icon != nil {
		def.Icon = *patch.Icon
	}
	if patch.DefaultRoles != nil {
		def.DefaultRoles = append([]string(nil), patch.DefaultRoles...)
	}
	if patch.Order != nil {
		def.Order = *patch.Order
	}

	now := time.Now()
	def.UpdatedAt = now
	version := 1
	if n := len(def.History); n > 0 {
		version = def.History[n-1].Version + 1
	}
	def.History = append(def.History, entity.ModuleHistoryEntry{
		Version:   version,
		Author:    author,
		Timestamp: now,
		Note:      note,
	})

	if err := c.source.Update(ctx, &def); err != nil {
		return nil, fmt.Errorf("actualizar módulo %s: %w", key, err)
	}

	c.mu.Lock()
	c.defs[key] = def
	c.mu.Unlock()

	out := def.Clone()
	return &out, nil
}

// Delete elimina la definición. No hace cascade sobre los overlays por
// empresa: una fila huérfana queda inerte y, si el módulo se recrea con la
// misma key, la configuración previa de cada empresa se restaura sola.
func (c *Catalog) Delete(ctx context.Context, key string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	c.mu.RLock()
	_, ok := c.defs[key]
	c.mu.RUnlock()
	if !ok {
		return domain.ErrNotFound
	}
	if err := c.source.Delete(ctx, key); err != nil {
		return fmt.Errorf("eliminar módulo %s: %w", key, err)
	}
	c.mu.Lock()
	delete(c.defs, key)
	c.mu.Unlock()
	return nil
}

func hasLabel(label map[string]string) bool {
	for _, v := range label {
		if v != "" {
			return true
		}
	}
	return false
}

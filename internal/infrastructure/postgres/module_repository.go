package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
	"github.com/tu-usuario/tienda-admin/internal/domain/repository"
)

// Asegura que ModuleDefinitionRepo implementa repository.ModuleDefinitionRepository.
var _ repository.ModuleDefinitionRepository = (*ModuleDefinitionRepo)(nil)

// ModuleDefinitionRepo persistencia del catálogo global de módulos.
// Label e historial se guardan como JSONB; los roles como text[].
type ModuleDefinitionRepo struct {
	pool *pgxpool.Pool
}

// NewModuleDefinitionRepository construye el adaptador del catálogo de módulos.
func NewModuleDefinitionRepository(pool *pgxpool.Pool) *ModuleDefinitionRepo {
	return &ModuleDefinitionRepo{pool: pool}
}

// FetchAll devuelve todas las definiciones del catálogo.
func (r *ModuleDefinitionRepo) FetchAll(ctx context.Context) ([]entity.ModuleDefinition, error) {
	query := `
		SELECT key, label, icon, default_roles, sort_order, created_at, updated_at, history
		FROM module_definitions ORDER BY sort_order, key`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch module definitions: %w", err)
	}
	defer rows.Close()

	var defs []entity.ModuleDefinition
	for rows.Next() {
		var d entity.ModuleDefinition
		var labelJSON, historyJSON []byte
		if err := rows.Scan(&d.Key, &labelJSON, &d.Icon, &d.DefaultRoles, &d.Order, &d.CreatedAt, &d.UpdatedAt, &historyJSON); err != nil {
			return nil, fmt.Errorf("scan module definition: %w", err)
		}
		if err := json.Unmarshal(labelJSON, &d.Label); err != nil {
			return nil, fmt.Errorf("decode label de %s: %w", d.Key, err)
		}
		if len(historyJSON) > 0 {
			if err := json.Unmarshal(historyJSON, &d.History); err != nil {
				return nil, fmt.Errorf("decode history de %s: %w", d.Key, err)
			}
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// Create persiste una nueva definición. Devuelve domain.ErrDuplicateKey si la key ya existe.
func (r *ModuleDefinitionRepo) Create(ctx context.Context, def *entity.ModuleDefinition) error {
	labelJSON, historyJSON, err := encodeDefinition(def)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO module_definitions (key, label, icon, default_roles, sort_order, created_at, updated_at, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.pool.Exec(ctx, query,
		def.Key, labelJSON, def.Icon, def.DefaultRoles, def.Order,
		def.CreatedAt, def.UpdatedAt, historyJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("insert module definition: %w", err)
	}
	return nil
}

// Update actualiza una definición existente (la key nunca cambia).
func (r *ModuleDefinitionRepo) Update(ctx context.Context, def *entity.ModuleDefinition) error {
	labelJSON, historyJSON, err := encodeDefinition(def)
	if err != nil {
		return err
	}
	query := `
		UPDATE module_definitions
		SET label = $2, icon = $3, default_roles = $4, sort_order = $5, updated_at = $6, history = $7
		WHERE key = $1`
	cmd, err := r.pool.Exec(ctx, query,
		def.Key, labelJSON, def.Icon, def.DefaultRoles, def.Order, def.UpdatedAt, historyJSON,
	)
	if err != nil {
		return fmt.Errorf("update module definition: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra una definición. Los overlays por empresa NO se tocan: quedan
// huérfanos e inertes hasta que la key se vuelva a crear.
func (r *ModuleDefinitionRepo) Delete(ctx context.Context, key string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM module_definitions WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete module definition: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func encodeDefinition(def *entity.ModuleDefinition) (labelJSON, historyJSON []byte, err error) {
	labelJSON, err = json.Marshal(def.Label)
	if err != nil {
		return nil, nil, fmt.Errorf("encode label: %w", err)
	}
	history := def.History
	if history == nil {
		history = []entity.ModuleHistoryEntry{}
	}
	historyJSON, err = json.Marshal(history)
	if err != nil {
		return nil, nil, fmt.Errorf("encode history: %w", err)
	}
	return labelJSON, historyJSON, nil
}

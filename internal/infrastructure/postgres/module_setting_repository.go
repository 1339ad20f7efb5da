package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
	"github.com/tu-usuario/tienda-admin/internal/domain/repository"
)

// Asegura que ModuleSettingRepo implementa repository.ModuleSettingRepository.
var _ repository.ModuleSettingRepository = (*ModuleSettingRepo)(nil)

// ModuleSettingRepo persistencia del overlay de módulos por empresa.
// A lo sumo una fila por (company_id, module_key); el constraint único lo garantiza.
type ModuleSettingRepo struct {
	pool *pgxpool.Pool
}

// NewModuleSettingRepository construye el adaptador del overlay por empresa.
func NewModuleSettingRepository(pool *pgxpool.Pool) *ModuleSettingRepo {
	return &ModuleSettingRepo{pool: pool}
}

// FetchForCompany devuelve todas las filas de overlay de una empresa.
func (r *ModuleSettingRepo) FetchForCompany(ctx context.Context, companyID string) ([]entity.ModuleSetting, error) {
	query := `
		SELECT company_id, module_key, enabled, visible_in_sidebar, use_analytics, show_in_dashboard,
		       roles, sort_order, created_at, updated_at
		FROM module_settings WHERE company_id = $1 ORDER BY module_key`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("fetch module settings: %w", err)
	}
	defer rows.Close()

	var list []entity.ModuleSetting
	for rows.Next() {
		var s entity.ModuleSetting
		if err := rows.Scan(&s.CompanyID, &s.ModuleKey, &s.Enabled, &s.VisibleInSidebar, &s.UseAnalytics,
			&s.ShowInDashboard, &s.Roles, &s.Order, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan module setting: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Upsert aplica un patch parcial sobre la fila (company_id, module_key) y
// devuelve la fila persistida. Si la fila no existe, se crea desde los valores
// por defecto (todo deshabilitado) más el patch. La lectura con FOR UPDATE
// serializa patches concurrentes sobre la misma fila.
func (r *ModuleSettingRepo) Upsert(ctx context.Context, companyID, moduleKey string, patch entity.ModuleSettingPatch) (*entity.ModuleSetting, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()
	current := entity.ModuleSetting{
		CompanyID: companyID,
		ModuleKey: moduleKey,
		CreatedAt: now,
	}
	query := `
		SELECT enabled, visible_in_sidebar, use_analytics, show_in_dashboard, roles, sort_order, created_at
		FROM module_settings WHERE company_id = $1 AND module_key = $2 FOR UPDATE`
	err = tx.QueryRow(ctx, query, companyID, moduleKey).Scan(
		&current.Enabled, &current.VisibleInSidebar, &current.UseAnalytics,
		&current.ShowInDashboard, &current.Roles, &current.Order, &current.CreatedAt,
	)
	if err != nil && !isNoRows(err) {
		return nil, fmt.Errorf("lock module setting: %w", err)
	}

	next := patch.Apply(current)
	next.UpdatedAt = now

	upsert := `
		INSERT INTO module_settings (company_id, module_key, enabled, visible_in_sidebar, use_analytics,
		                             show_in_dashboard, roles, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (company_id, module_key) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			visible_in_sidebar = EXCLUDED.visible_in_sidebar,
			use_analytics = EXCLUDED.use_analytics,
			show_in_dashboard = EXCLUDED.show_in_dashboard,
			roles = EXCLUDED.roles,
			sort_order = EXCLUDED.sort_order,
			updated_at = EXCLUDED.updated_at`
	_, err = tx.Exec(ctx, upsert,
		next.CompanyID, next.ModuleKey, next.Enabled, next.VisibleInSidebar, next.UseAnalytics,
		next.ShowInDashboard, next.Roles, next.Order, next.CreatedAt, next.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert module setting: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &next, nil
}

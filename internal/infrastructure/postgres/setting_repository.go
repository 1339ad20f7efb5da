package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
	"github.com/tu-usuario/tienda-admin/internal/domain/repository"
)

// Asegura que CompanySettingRepo implementa repository.CompanySettingRepository.
var _ repository.CompanySettingRepository = (*CompanySettingRepo)(nil)

// CompanySettingRepo persistencia de settings clave/valor por empresa.
type CompanySettingRepo struct {
	pool *pgxpool.Pool
}

// NewCompanySettingRepository construye el adaptador de settings de empresa.
func NewCompanySettingRepository(pool *pgxpool.Pool) *CompanySettingRepo {
	return &CompanySettingRepo{pool: pool}
}

// ListByCompany devuelve todos los settings de una empresa ordenados por clave.
func (r *CompanySettingRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.CompanySetting, error) {
	query := `
		SELECT company_id, key, value, updated_at
		FROM company_settings WHERE company_id = $1 ORDER BY key`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var list []entity.CompanySetting
	for rows.Next() {
		var s entity.CompanySetting
		if err := rows.Scan(&s.CompanyID, &s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Upsert crea o actualiza un setting de la empresa.
func (r *CompanySettingRepo) Upsert(ctx context.Context, setting *entity.CompanySetting) error {
	query := `
		INSERT INTO company_settings (company_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query, setting.CompanyID, setting.Key, setting.Value, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

// Delete elimina un setting por clave.
func (r *CompanySettingRepo) Delete(ctx context.Context, companyID, key string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM company_settings WHERE company_id = $1 AND key = $2`, companyID, key)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

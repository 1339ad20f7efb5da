package repository

import (
	"context"

	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// CompanySettingRepository define el puerto de persistencia para los
// settings clave/valor de la empresa.
type CompanySettingRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]entity.CompanySetting, error)
	Upsert(ctx context.Context, setting *entity.CompanySetting) error
	Delete(ctx context.Context, companyID, key string) error
}

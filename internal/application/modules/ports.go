package modules

import (
	"context"

	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// DefinitionSource es la fuente autoritativa del catálogo global de módulos.
// La implementación de producción es el repositorio Postgres.
type DefinitionSource interface {
	FetchAll(ctx context.Context) ([]entity.ModuleDefinition, error)
	Create(ctx context.Context, def *entity.ModuleDefinition) error
	Update(ctx context.Context, def *entity.ModuleDefinition) error
	Delete(ctx context.Context, key string) error
}

// SettingSource es la fuente autoritativa del overlay de módulos por empresa.
// Upsert devuelve la fila persistida: el gateway optimista reconcilia contra
// esa respuesta, que puede diferir del valor escrito especulativamente.
type SettingSource interface {
	FetchForCompany(ctx context.Context, companyID string) ([]entity.ModuleSetting, error)
	Upsert(ctx context.Context, companyID, moduleKey string, patch entity.ModuleSettingPatch) (*entity.ModuleSetting, error)
}

// CompanyLister provee la lista de empresas conocidas; el coordinador la usa
// para validar la preferencia de empresa persistida al restaurar el workspace.
type CompanyLister interface {
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
}

// CompanyGetter obtiene la ficha de una empresa (store colaborador "company info").
type CompanyGetter interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}

// ProductLister obtiene el catálogo de productos de una empresa (store colaborador).
type ProductLister interface {
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
}

// SettingLister obtiene los settings clave/valor de una empresa (store colaborador).
type SettingLister interface {
	ListByCompany(ctx context.Context, companyID string) ([]entity.CompanySetting, error)
}

// PreferenceStore persiste la empresa activa preferida del operador. Solo el
// coordinador de cambio de empresa la escribe, y solo tras un cambio exitoso.
type PreferenceStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, companyID string) error
}

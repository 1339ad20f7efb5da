package repository

import (
	"context"

	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// ModuleDefinitionRepository es la fuente autoritativa del catálogo global de
// módulos. El catálogo en memoria se carga desde aquí y escribe through.
type ModuleDefinitionRepository interface {
	FetchAll(ctx context.Context) ([]entity.ModuleDefinition, error)
	Create(ctx context.Context, def *entity.ModuleDefinition) error
	Update(ctx context.Context, def *entity.ModuleDefinition) error
	Delete(ctx context.Context, key string) error
}

// ModuleSettingRepository es la fuente autoritativa del overlay por empresa.
// Upsert devuelve la fila persistida: es la respuesta autoritativa con la que
// el gateway optimista reconcilia (puede diferir del valor adivinado).
type ModuleSettingRepository interface {
	FetchForCompany(ctx context.Context, companyID string) ([]entity.ModuleSetting, error)
	Upsert(ctx context.Context, companyID, moduleKey string, patch entity.ModuleSettingPatch) (*entity.ModuleSetting, error)
}

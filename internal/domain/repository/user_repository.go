package repository

import (
	"context"

	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
// UpdatePreferredCompany persiste la preferencia de empresa activa del
// operador; el coordinador de cambio de empresa es el único que la escribe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePreferredCompany(ctx context.Context, userID, companyID string) error
}

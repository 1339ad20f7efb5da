package usecase

import (
	"context"
	"time"

	"github.com/tu-usuario/tienda-admin/internal/application/dto"
	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
	"github.com/tu-usuario/tienda-admin/internal/domain/repository"
)

// SettingsUseCase administra los settings clave/valor de la empresa
// (moneda, zona horaria, tema del storefront, etc.).
type SettingsUseCase struct {
	repo repository.CompanySettingRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.CompanySettingRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// List lista los settings de la empresa.
func (uc *SettingsUseCase) List(ctx context.Context, companyID string) (*dto.SettingListResponse, error) {
	items, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(items))
	for _, s := range items {
		out = append(out, dto.SettingResponse{
			CompanyID: s.CompanyID,
			Key:       s.Key,
			Value:     s.Value,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return &dto.SettingListResponse{Items: out}, nil
}

// Upsert crea o reemplaza un setting de la empresa.
func (uc *SettingsUseCase) Upsert(ctx context.Context, companyID, key string, in dto.UpsertSettingRequest) (*dto.SettingResponse, error) {
	if companyID == "" || key == "" {
		return nil, domain.ErrInvalidInput
	}
	setting := &entity.CompanySetting{
		CompanyID: companyID,
		Key:       key,
		Value:     in.Value,
		UpdatedAt: time.Now(),
	}
	if err := uc.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return &dto.SettingResponse{
		CompanyID: setting.CompanyID,
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedAt: setting.UpdatedAt,
	}, nil
}

// Delete elimina un setting de la empresa.
func (uc *SettingsUseCase) Delete(ctx context.Context, companyID, key string) error {
	return uc.repo.Delete(ctx, companyID, key)
}

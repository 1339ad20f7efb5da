package modules

import (
	"context"
	"fmt"
	"sync"

	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// Caches colaboradores scoped a empresa. Cada uno implementa
// CompanyScopedStore y se registra en la cascada del coordinador después del
// overlay de módulos, en el orden declarado: settings, ficha de empresa,
// catálogo de productos.

const maxProductCache = 500

// SettingsCache guarda en memoria los settings clave/valor de la empresa activa.
type SettingsCache struct {
	mu        sync.RWMutex
	source    SettingLister
	companyID string
	items     []entity.CompanySetting
}

// NewSettingsCache construye el cache vacío.
func NewSettingsCache(source SettingLister) *SettingsCache {
	return &SettingsCache{source: source}
}

// Name identifica el store en la cascada.
func (s *SettingsCache) Name() string { return "company-settings" }

// Clear descarta los settings cargados.
func (s *SettingsCache) Clear() {
	s.mu.Lock()
	s.companyID = ""
	s.items = nil
	s.mu.Unlock()
}

// Fetch recarga los settings de la empresa indicada.
func (s *SettingsCache) Fetch(ctx context.Context, companyID string) error {
	items, err := s.source.ListByCompany(ctx, companyID)
	if err != nil {
		return fmt.Errorf("cargar settings de %s: %w", companyID, err)
	}
	s.mu.Lock()
	s.companyID = companyID
	s.items = items
	s.mu.Unlock()
	return nil
}

// ListForCompany devuelve los settings cargados; error si se pide otra empresa.
func (s *SettingsCache) ListForCompany(companyID string) ([]entity.CompanySetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if companyID == "" || companyID != s.companyID {
		return nil, domain.ErrWrongCompany
	}
	return append([]entity.CompanySetting(nil), s.items...), nil
}

// CompanyInfoCache guarda la ficha de la empresa activa.
type CompanyInfoCache struct {
	mu        sync.RWMutex
	source    CompanyGetter
	companyID string
	company   *entity.Company
}

// NewCompanyInfoCache construye el cache vacío.
func NewCompanyInfoCache(source CompanyGetter) *CompanyInfoCache {
	return &CompanyInfoCache{source: source}
}

// Name identifica el store en la cascada.
func (s *CompanyInfoCache) Name() string { return "company-info" }

// Clear descarta la ficha cargada.
func (s *CompanyInfoCache) Clear() {
	s.mu.Lock()
	s.companyID = ""
	s.company = nil
	s.mu.Unlock()
}

// Fetch recarga la ficha de la empresa indicada. Una empresa inexistente es
// un fallo de la cascada: no se puede declarar estable un workspace sin ficha.
func (s *CompanyInfoCache) Fetch(ctx context.Context, companyID string) error {
	company, err := s.source.GetByID(ctx, companyID)
	if err != nil {
		return fmt.Errorf("cargar ficha de %s: %w", companyID, err)
	}
	if company == nil {
		return fmt.Errorf("ficha de %s: %w", companyID, domain.ErrNotFound)
	}
	s.mu.Lock()
	s.companyID = companyID
	s.company = company
	s.mu.Unlock()
	return nil
}

// Get devuelve la ficha cargada; error si se pide otra empresa.
func (s *CompanyInfoCache) Get(companyID string) (*entity.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if companyID == "" || companyID != s.companyID || s.company == nil {
		return nil, domain.ErrWrongCompany
	}
	out := *s.company
	return &out, nil
}

// ProductCache guarda el catálogo de productos de la empresa activa.
type ProductCache struct {
	mu        sync.RWMutex
	source    ProductLister
	companyID string
	products  []*entity.Product
}

// NewProductCache construye el cache vacío.
func NewProductCache(source ProductLister) *ProductCache {
	return &ProductCache{source: source}
}

// Name identifica el store en la cascada.
func (s *ProductCache) Name() string { return "product-catalog" }

// Clear descarta los productos cargados.
func (s *ProductCache) Clear() {
	s.mu.Lock()
	s.companyID = ""
	s.products = nil
	s.mu.Unlock()
}

// Fetch recarga el catálogo de productos de la empresa indicada.
func (s *ProductCache) Fetch(ctx context.Context, companyID string) error {
	products, err := s.source.ListByCompany(ctx, companyID, maxProductCache, 0)
	if err != nil {
		return fmt.Errorf("cargar productos de %s: %w", companyID, err)
	}
	s.mu.Lock()
	s.companyID = companyID
	s.products = products
	s.mu.Unlock()
	return nil
}

// ListForCompany devuelve los productos cargados; error si se pide otra empresa.
func (s *ProductCache) ListForCompany(companyID string) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if companyID == "" || companyID != s.companyID {
		return nil, domain.ErrWrongCompany
	}
	return append([]*entity.Product(nil), s.products...), nil
}

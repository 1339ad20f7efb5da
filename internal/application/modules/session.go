package modules

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/repository"
)

// SessionManager entrega el workspace de cada operador autenticado. El
// workspace se construye perezosamente en el primer acceso y restaura la
// empresa preferida persistida del usuario (validada contra la lista de
// empresas conocidas).
type SessionManager struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace

	catalog   *Catalog
	settings  SettingSource
	kvStore   SettingLister
	companies repository.CompanyRepository
	products  ProductLister
	users     repository.UserRepository
	log       zerolog.Logger
}

// SessionDeps dependencias del manager de sesiones.
type SessionDeps struct {
	Catalog   *Catalog
	Settings  SettingSource
	KVStore   SettingLister
	Companies repository.CompanyRepository
	Products  ProductLister
	Users     repository.UserRepository
	Log       zerolog.Logger
}

// NewSessionManager construye el manager.
func NewSessionManager(deps SessionDeps) *SessionManager {
	return &SessionManager{
		workspaces: make(map[string]*Workspace),
		catalog:    deps.Catalog,
		settings:   deps.Settings,
		kvStore:    deps.KVStore,
		companies:  deps.Companies,
		products:   deps.Products,
		users:      deps.Users,
		log:        deps.Log,
	}
}

// Workspace devuelve el workspace del usuario, creándolo si es el primer
// acceso de la sesión. El Restore inicial corre fuera del lock del manager
// para no serializar a todos los operadores detrás de una cascada lenta.
func (m *SessionManager) Workspace(ctx context.Context, userID string) (*Workspace, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	m.mu.Lock()
	ws, ok := m.workspaces[userID]
	if ok {
		m.mu.Unlock()
		return ws, nil
	}
	ws = NewWorkspace(WorkspaceDeps{
		Catalog:   m.catalog,
		Settings:  m.settings,
		KVStore:   m.kvStore,
		Companies: m.companies,
		Products:  m.products,
		Prefs:     &userPreference{users: m.users, userID: userID},
		Log:       m.log.With().Str("user_id", userID).Logger(),
	})
	m.workspaces[userID] = ws
	m.mu.Unlock()

	if err := ws.Restore(ctx); err != nil {
		m.log.Warn().Err(err).Str("user_id", userID).
			Msg("no se pudo restaurar la empresa preferida")
	}
	return ws, nil
}

// Drop descarta el workspace de un usuario (logout).
func (m *SessionManager) Drop(userID string) {
	m.mu.Lock()
	delete(m.workspaces, userID)
	m.mu.Unlock()
}

// userPreference adapta el UserRepository al puerto PreferenceStore del
// coordinador: la preferencia vive en la fila del usuario.
type userPreference struct {
	users  repository.UserRepository
	userID string
}

var _ PreferenceStore = (*userPreference)(nil)

func (p *userPreference) Load(ctx context.Context) (string, error) {
	user, err := p.users.GetByID(ctx, p.userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.PreferredCompanyID, nil
}

func (p *userPreference) Save(ctx context.Context, companyID string) error {
	return p.users.UpdatePreferredCompany(ctx, p.userID, companyID)
}

// Asegura que el repositorio de empresas cumple los puertos del workspace.
var (
	_ CompanyLister = (repository.CompanyRepository)(nil)
	_ CompanyGetter = (repository.CompanyRepository)(nil)
)

package modules_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tu-usuario/tienda-admin/internal/domain"
	"github.com/tu-usuario/tienda-admin/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de las fuentes autoritativas. Simulan el backend real
// (Postgres) con fallos inyectables para ejercitar rollback y cascada.
// ──────────────────────────────────────────────────────────────────────────────

var errBackend = errors.New("backend caído (simulado)")

// fakeDefinitionSource guarda definiciones en memoria. blockUpdate permite
// retener un Update en vuelo para forzar intercalados de escrituras.
type fakeDefinitionSource struct {
	mu          sync.Mutex
	defs        map[string]entity.ModuleDefinition
	failAll     bool
	blockUpdate chan struct{} // si no es nil, Update espera a que se cierre
	updateCalls int
}

func newFakeDefinitionSource(defs ...entity.ModuleDefinition) *fakeDefinitionSource {
	s := &fakeDefinitionSource{defs: make(map[string]entity.ModuleDefinition)}
	for _, d := range defs {
		s.defs[d.Key] = d
	}
	return s
}

func (s *fakeDefinitionSource) FetchAll(ctx context.Context) ([]entity.ModuleDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, errBackend
	}
	out := make([]entity.ModuleDefinition, 0, len(s.defs))
	for _, d := range s.defs {
		out = append(out, d)
	}
	return out, nil
}

func (s *fakeDefinitionSource) Create(ctx context.Context, def *entity.ModuleDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errBackend
	}
	if _, ok := s.defs[def.Key]; ok {
		return domain.ErrDuplicateKey
	}
	s.defs[def.Key] = *def
	return nil
}

func (s *fakeDefinitionSource) updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateCalls
}

func (s *fakeDefinitionSource) Update(ctx context.Context, def *entity.ModuleDefinition) error {
	s.mu.Lock()
	s.updateCalls++
	block := s.blockUpdate
	s.mu.Unlock()
	if block != nil {
		<-block // escritura retenida hasta que el test la libere
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errBackend
	}
	if _, ok := s.defs[def.Key]; !ok {
		return domain.ErrNotFound
	}
	s.defs[def.Key] = *def
	return nil
}

func (s *fakeDefinitionSource) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errBackend
	}
	delete(s.defs, key)
	return nil
}

// fakeSettingSource guarda overlays por (empresa, módulo). failUpsert fuerza
// el camino de rollback; blockUpsert permite retener la confirmación en vuelo
// para simular respuestas tardías (guard de staleness).
type fakeSettingSource struct {
	mu          sync.Mutex
	rows        map[string]map[string]entity.ModuleSetting // companyID -> moduleKey -> fila
	failFetch   bool
	failUpsert  bool
	blockUpsert chan struct{} // si no es nil, Upsert espera a que se cierre
	upsertCalls int
}

func newFakeSettingSource() *fakeSettingSource {
	return &fakeSettingSource{rows: make(map[string]map[string]entity.ModuleSetting)}
}

func (s *fakeSettingSource) seed(st entity.ModuleSetting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows[st.CompanyID] == nil {
		s.rows[st.CompanyID] = make(map[string]entity.ModuleSetting)
	}
	s.rows[st.CompanyID][st.ModuleKey] = st
}

func (s *fakeSettingSource) FetchForCompany(ctx context.Context, companyID string) ([]entity.ModuleSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFetch {
		return nil, errBackend
	}
	out := make([]entity.ModuleSetting, 0, len(s.rows[companyID]))
	for _, st := range s.rows[companyID] {
		out = append(out, st)
	}
	return out, nil
}

func (s *fakeSettingSource) upserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertCalls
}

func (s *fakeSettingSource) Upsert(ctx context.Context, companyID, moduleKey string, patch entity.ModuleSettingPatch) (*entity.ModuleSetting, error) {
	s.mu.Lock()
	s.upsertCalls++
	block := s.blockUpsert
	s.mu.Unlock()
	if block != nil {
		<-block // respuesta retenida hasta que el test la libere
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpsert {
		return nil, errBackend
	}
	if s.rows[companyID] == nil {
		s.rows[companyID] = make(map[string]entity.ModuleSetting)
	}
	base, ok := s.rows[companyID][moduleKey]
	if !ok {
		base = entity.ModuleSetting{CompanyID: companyID, ModuleKey: moduleKey, CreatedAt: time.Now()}
	}
	next := patch.Apply(base)
	next.UpdatedAt = time.Now()
	s.rows[companyID][moduleKey] = next
	out := next
	return &out, nil
}

// fakeCompanyRepo implementa lo que el workspace necesita de empresas.
type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*entity.Company
	failGet   bool
}

func newFakeCompanyRepo(ids ...string) *fakeCompanyRepo {
	r := &fakeCompanyRepo{companies: make(map[string]*entity.Company)}
	for _, id := range ids {
		r.companies[id] = &entity.Company{ID: id, Name: "Empresa " + id, Status: "active"}
	}
	return r
}

func (r *fakeCompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Company, 0, len(r.companies))
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet {
		return nil, errBackend
	}
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

// fakeProductSource lista productos por empresa. failFor hace fallar la carga
// solo para esa empresa, para simular un colaborador caído durante la cascada.
type fakeProductSource struct {
	mu       sync.Mutex
	products map[string][]*entity.Product
	failFor  string
	fetches  []string
	block    chan struct{} // si no es nil, ListByCompany espera a que se cierre
}

func newFakeProductSource() *fakeProductSource {
	return &fakeProductSource{products: make(map[string][]*entity.Product)}
}

func (s *fakeProductSource) fetchLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetches...)
}

func (s *fakeProductSource) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	s.mu.Lock()
	s.fetches = append(s.fetches, companyID)
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor != "" && s.failFor == companyID {
		return nil, errBackend
	}
	return s.products[companyID], nil
}

// fakeKVSource lista settings clave/valor por empresa.
type fakeKVSource struct {
	mu    sync.Mutex
	items map[string][]entity.CompanySetting
	fail  bool
}

func newFakeKVSource() *fakeKVSource {
	return &fakeKVSource{items: make(map[string][]entity.CompanySetting)}
}

func (s *fakeKVSource) ListByCompany(ctx context.Context, companyID string) ([]entity.CompanySetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errBackend
	}
	return s.items[companyID], nil
}

// fakePrefs guarda la preferencia de empresa en memoria.
type fakePrefs struct {
	mu    sync.Mutex
	value string
}

func (p *fakePrefs) Load(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, nil
}

func (p *fakePrefs) Save(ctx context.Context, companyID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = companyID
	return nil
}

func (p *fakePrefs) current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de construcción de entidades
// ──────────────────────────────────────────────────────────────────────────────

func def(key string, order int) entity.ModuleDefinition {
	return entity.ModuleDefinition{
		Key:   key,
		Label: map[string]string{"es": "Módulo " + key},
		Icon:  "icon-" + key,
		Order: order,
	}
}

func setting(companyID, key string, enabled bool) entity.ModuleSetting {
	return entity.ModuleSetting{CompanyID: companyID, ModuleKey: key, Enabled: enabled}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

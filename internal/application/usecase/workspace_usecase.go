package usecase

import (
	"context"

	"github.com/tu-usuario/tienda-admin/internal/application/dto"
	"github.com/tu-usuario/tienda-admin/internal/application/modules"
)

// WorkspaceUseCase expone el estado del workspace del operador y el cambio de
// empresa activa (la cascada completa la ejecuta el coordinador).
type WorkspaceUseCase struct {
	sessions *modules.SessionManager
}

// NewWorkspaceUseCase construye el caso de uso.
func NewWorkspaceUseCase(sessions *modules.SessionManager) *WorkspaceUseCase {
	return &WorkspaceUseCase{sessions: sessions}
}

// Switch cambia la empresa activa del operador. Devuelve el estado resultante
// del workspace; ante un fallo de cascada el estado reportado es el de la
// empresa anterior, ya recargada.
func (uc *WorkspaceUseCase) Switch(ctx context.Context, userID string, in dto.SwitchCompanyRequest, locale string) (*dto.WorkspaceResponse, error) {
	ws, err := uc.sessions.Workspace(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := ws.Coordinator.Switch(ctx, in.CompanyID); err != nil {
		return nil, err
	}
	return uc.snapshot(ws, locale), nil
}

// Get devuelve el estado actual del workspace del operador.
func (uc *WorkspaceUseCase) Get(ctx context.Context, userID, locale string) (*dto.WorkspaceResponse, error) {
	ws, err := uc.sessions.Workspace(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.snapshot(ws, locale), nil
}

// Logout descarta el workspace del operador.
func (uc *WorkspaceUseCase) Logout(userID string) {
	uc.sessions.Drop(userID)
}

func (uc *WorkspaceUseCase) snapshot(ws *modules.Workspace, locale string) *dto.WorkspaceResponse {
	resp := &dto.WorkspaceResponse{
		ActiveCompanyID: ws.ActiveCompanyID(),
		Modules:         toEffectiveResponses(ws.EffectiveModules(), locale),
	}
	if resp.ActiveCompanyID != "" {
		if company, err := ws.CompanyInfo.Get(resp.ActiveCompanyID); err == nil {
			c := entityToCompanyResponse(company)
			resp.Company = c
		}
	}
	return resp
}

package service

import (
	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/mapper"
	"eras-capsule-be/internal/workflow"
)

type IWorkflowService interface {
	GetState(sessionID, userID string) *dto.WorkflowStateResponse
	ChangeTab(sessionID, userID string, req *dto.ChangeTabRequest) (*dto.ChangeTabResponse, error)
	SetMedia(sessionID, userID string, req *dto.SetMediaRequest) *dto.WorkflowStateResponse
	AddMedia(sessionID, userID string, req *dto.AddMediaRequest) *dto.WorkflowStateResponse
	RemoveMedia(sessionID, userID, mediaID string) *dto.WorkflowStateResponse
	SetStep(sessionID, userID string, req *dto.SetStepRequest) *dto.WorkflowStateResponse
	SetTheme(sessionID, userID string, req *dto.SetThemeRequest) *dto.WorkflowStateResponse
	ImportVaultMedia(sessionID, userID string, req *dto.VaultImportRequest) *dto.WorkflowStateResponse
	UncheckVault(sessionID, userID string, req *dto.VaultUncheckRequest) (bool, *dto.WorkflowStateResponse)
	CompleteEnhancement(sessionID, userID string, req *dto.EnhancementCompleteRequest) (bool, *dto.WorkflowStateResponse)
}

// workflowService is the HTTP-facing wrapper over the per-session
// orchestration core. All methods are keyed by the session id carried in the
// JWT.
type workflowService struct {
	sessions *workflow.Manager
}

func NewWorkflowService(sessions *workflow.Manager) IWorkflowService {
	return &workflowService{sessions: sessions}
}

func (s *workflowService) session(sessionID, userID string) *workflow.Session {
	return s.sessions.GetOrCreate(sessionID, userID)
}

func (s *workflowService) snapshot(sess *workflow.Session) *dto.WorkflowStateResponse {
	res := mapper.ToWorkflowStateResponse(sess.Store.Snapshot(), sess.Nav.Tabs())
	return &res
}

func (s *workflowService) GetState(sessionID, userID string) *dto.WorkflowStateResponse {
	return s.snapshot(s.session(sessionID, userID))
}

func (s *workflowService) ChangeTab(sessionID, userID string, req *dto.ChangeTabRequest) (*dto.ChangeTabResponse, error) {
	sess := s.session(sessionID, userID)

	transition, err := sess.Nav.ChangeTab(req.Target, req.Force)
	if err != nil {
		return nil, err
	}
	if transition == nil {
		// Same target, nothing happened.
		tabs := sess.Nav.Tabs()
		return &dto.ChangeTabResponse{
			ActiveTab:       tabs.ActiveTab,
			LastActiveTab:   tabs.LastActiveTab,
			SettingsSection: tabs.SettingsSection,
		}, nil
	}

	res := mapper.ToChangeTabResponse(transition)
	return &res, nil
}

func (s *workflowService) SetMedia(sessionID, userID string, req *dto.SetMediaRequest) *dto.WorkflowStateResponse {
	sess := s.session(sessionID, userID)
	sess.Store.SetMedia(mapper.ToMediaItems(req.Media))
	return s.snapshot(sess)
}

func (s *workflowService) AddMedia(sessionID, userID string, req *dto.AddMediaRequest) *dto.WorkflowStateResponse {
	sess := s.session(sessionID, userID)
	sess.Store.AddMedia(mapper.ToMediaItems(req.Media)...)
	return s.snapshot(sess)
}

func (s *workflowService) RemoveMedia(sessionID, userID, mediaID string) *dto.WorkflowStateResponse {
	sess := s.session(sessionID, userID)
	sess.Store.RemoveMedia(mediaID)
	return s.snapshot(sess)
}

func (s *workflowService) SetStep(sessionID, userID string, req *dto.SetStepRequest) *dto.WorkflowStateResponse {
	sess := s.session(sessionID, userID)
	sess.Store.SetStep(req.Step)
	return s.snapshot(sess)
}

func (s *workflowService) SetTheme(sessionID, userID string, req *dto.SetThemeRequest) *dto.WorkflowStateResponse {
	sess := s.session(sessionID, userID)
	sess.Store.SetTheme(req.Theme, req.ThemeMetadata)
	return s.snapshot(sess)
}

func (s *workflowService) ImportVaultMedia(sessionID, userID string, req *dto.VaultImportRequest) *dto.WorkflowStateResponse {
	sess := s.session(sessionID, userID)
	sess.Sync.Import(mapper.ToMediaItems(req.Media)...)
	return s.snapshot(sess)
}

func (s *workflowService) UncheckVault(sessionID, userID string, req *dto.VaultUncheckRequest) (bool, *dto.WorkflowStateResponse) {
	sess := s.session(sessionID, userID)
	removed := sess.Sync.Uncheck(req.VaultKey)
	return removed, s.snapshot(sess)
}

func (s *workflowService) CompleteEnhancement(sessionID, userID string, req *dto.EnhancementCompleteRequest) (bool, *dto.WorkflowStateResponse) {
	sess := s.session(sessionID, userID)
	applied := sess.Sync.OnEnhancementComplete(req.OriginalID, mapper.ToMediaItem(req.Enhanced))
	return applied, s.snapshot(sess)
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"eras-capsule-be/internal/authgate"
	"eras-capsule-be/internal/config"
	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/mapper"
	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/internal/repository/unitofwork"
	"eras-capsule-be/internal/workflow"
	"eras-capsule-be/pkg/sidestore"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider, state, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
	side       sidestore.Store
	gate       *authgate.Manager
	sessions   *workflow.Manager
	logger     logger.ILogger
	authCfg    config.AuthConfig
}

func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	side sidestore.Store,
	gate *authgate.Manager,
	sessions *workflow.Manager,
	log logger.ILogger,
	authCfg config.AuthConfig,
) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     authCfg.GoogleClientID,
		ClientSecret: authCfg.GoogleClientSecret,
		RedirectURL:  authCfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
		side:       side,
		gate:       gate,
		sessions:   sessions,
		logger:     log,
		authCfg:    authCfg,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)

	// Best-effort CSRF state; failure downgrades to an unvalidated flow
	// rather than blocking login.
	if err := s.side.Set(sidestore.KeyOAuthState+state, "pending", 10*time.Minute); err != nil {
		s.logger.Warn("OAuthService", "Failed to store oauth state", map[string]interface{}{"error": err.Error()})
	}

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider, state, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}

	// 1. Validate and burn the state nonce
	if _, err := s.side.Get(sidestore.KeyOAuthState + state); err != nil {
		return nil, errors.New("invalid oauth state")
	}
	_ = s.side.Remove(sidestore.KeyOAuthState + state)

	// 2. Exchange code for token
	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}

	// 3. Fetch profile
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %v", err)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(content, &googleUser); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 4. Find or create the account
	user, err := uow.UserRepository().FindByEmail(ctx, googleUser.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &model.User{
			Id:            uuid.New(),
			Email:         googleUser.Email,
			FullName:      googleUser.Name,
			PasswordHash:  nil,
			Role:          model.UserRoleUser,
			Status:        model.UserStatusActive,
			EmailVerified: true,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		if googleUser.Picture != "" {
			user.AvatarURL = &googleUser.Picture
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			uow.Rollback()
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
		s.logger.Info("OAuthService", "New user created via Google", map[string]interface{}{"user_id": user.Id})
	}

	// 5. Sync provider link
	existing, _ := uow.UserRepository().FindProvider(ctx, "google", googleUser.ID)
	if existing == nil {
		provider := &model.UserProvider{
			Id:             uuid.New(),
			UserId:         user.Id,
			ProviderName:   "google",
			ProviderUserId: googleUser.ID,
			AvatarURL:      googleUser.Picture,
			CreatedAt:      time.Now(),
		}
		if err := uow.UserRepository().CreateProvider(ctx, provider); err != nil {
			return nil, fmt.Errorf("failed to save provider info: %v", err)
		}
	}

	// 6. Same gate handoff as password login
	sessionID := uuid.New().String()
	s.sessions.GetOrCreate(sessionID, user.Id.String())

	accessToken, err := signAccessToken(user, sessionID, s.authCfg)
	if err != nil {
		return nil, err
	}

	seq := s.gate.Sequencer(sessionID)
	seq.HandleAuthSuccess(authgate.AuthData{
		UserData:     mapper.ToUserGatePayload(user),
		AccessToken:  accessToken,
		IsFreshLogin: true,
	})

	return &dto.LoginResponse{
		SessionID: sessionID,
		GateState: string(seq.State()),
	}, nil
}

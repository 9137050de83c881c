package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"eras-capsule-be/internal/authgate"
	"eras-capsule-be/internal/config"
	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/mapper"
	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/pkg/mailer"
	"eras-capsule-be/internal/repository/unitofwork"
	"eras-capsule-be/internal/workflow"
	"eras-capsule-be/pkg/events"
	pktNats "eras-capsule-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	CompleteGate(ctx context.Context, sessionID string) (*dto.GateResultResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, sessionID, refreshToken string) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	gate           *authgate.Manager
	sessions       *workflow.Manager
	migration      *EchoMigrationService
	authCfg        config.AuthConfig
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	gate *authgate.Manager,
	sessions *workflow.Manager,
	migration *EchoMigrationService,
	authCfg config.AuthConfig,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		gate:           gate,
		sessions:       sessions,
		migration:      migration,
		authCfg:        authCfg,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func hashToken(raw string) string {
	hasher := sha256.New()
	hasher.Write([]byte(raw))
	return hex.EncodeToString(hasher.Sum(nil))
}

func signAccessToken(user *model.User, sessionID string, cfg config.AuthConfig) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.Id.String(),
		"role":       user.Role,
		"session_id": sessionID,
		"exp":        time.Now().Add(time.Duration(cfg.AccessTokenHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JwtSecret))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Check for existing user
	existing, _ := uow.UserRepository().FindByEmail(ctx, req.Email)
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	// 2. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &model.User{
		Id:            uuid.New(),
		Email:         req.Email,
		FullName:      req.FullName,
		PasswordHash:  &hashStr,
		Role:          model.UserRoleUser,
		Status:        model.UserStatusPending,
		EmailVerified: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	// 3. User + OTP in one transaction
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	otpCode, err := generateOTP()
	if err != nil {
		return nil, err
	}

	verificationToken := &model.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     otpCode,
		ExpiresAt: time.Now().Add(15 * time.Minute),
		CreatedAt: time.Now(),
	}

	if err := uow.UserRepository().CreateEmailVerificationToken(ctx, verificationToken); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendOTP(user.Email, otpCode); emailErr != nil {
			fmt.Printf("Error sending registration email: %v\n", emailErr)
		}
	}()

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return errors.New("user not found")
	}

	if user.Status == model.UserStatusActive {
		return nil
	}

	tokenRow, err := uow.UserRepository().FindEmailVerificationToken(ctx, user.Id, req.Token)
	if err != nil || tokenRow == nil {
		return errors.New("invalid otp code")
	}

	if time.Now().After(tokenRow.ExpiresAt) {
		return errors.New("otp code expired")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().ActivateUser(ctx, user.Id); err != nil {
		return err
	}
	_ = uow.UserRepository().DeleteEmailVerificationToken(ctx, tokenRow.Id)

	return uow.Commit()
}

// Login checks credentials and stages the result behind the gate sequencer.
// The access token is only handed out by CompleteGate, after the client has
// played the entry transition.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Credential checks
	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return nil, errors.New("invalid credentials")
	}
	if user.PasswordHash == nil {
		return nil, errors.New("user registered via OAuth")
	}
	if user.Status == model.UserStatusPending || !user.EmailVerified {
		return nil, errors.New("email not verified. please check your inbox for the otp code")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	if user.Status == model.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	// 2. Fresh workflow session for this sign-in
	sessionID := uuid.New().String()
	session := s.sessions.GetOrCreate(sessionID, user.Id.String())

	accessToken, err := signAccessToken(user, sessionID, s.authCfg)
	if err != nil {
		return nil, err
	}

	// 3. Stage behind the gate; a second login attempt while gating is ignored
	seq := s.gate.Sequencer(sessionID)
	seq.HandleAuthSuccess(authgate.AuthData{
		UserData:     mapper.ToUserGatePayload(user),
		AccessToken:  accessToken,
		IsFreshLogin: true,
	})

	// 4. Refresh token only for "remember me"
	var rawRefreshToken string
	if req.RememberMe {
		rawRefreshToken = uuid.New().String()
		refreshRow := &model.UserRefreshToken{
			Id:        uuid.New(),
			UserId:    user.Id,
			TokenHash: hashToken(rawRefreshToken),
			ExpiresAt: time.Now().Add(time.Duration(s.authCfg.RefreshTokenDays) * 24 * time.Hour),
			Revoked:   false,
			CreatedAt: time.Now(),
			IpAddress: ipAddress,
			UserAgent: userAgent,
		}
		if err := uow.UserRepository().CreateRefreshToken(ctx, refreshRow); err != nil {
			return nil, fmt.Errorf("failed to create session: %v", err)
		}
	}

	// 5. Fold pending legacy echoes into the unified feed for this session
	if s.migration != nil {
		go func() {
			if _, migErr := s.migration.MigrateForSession(context.Background(), session); migErr != nil {
				fmt.Printf("[WARN] Echo migration failed for session %s: %v\n", sessionID, migErr)
			}
		}()
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeUserLogin,
			Data: map[string]interface{}{
				"user_id": user.Id.String(),
				"device":  userAgent,
				"time":    time.Now().Format(time.RFC822),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	return &dto.LoginResponse{
		SessionID:    sessionID,
		GateState:    string(seq.State()),
		RefreshToken: rawRefreshToken,
	}, nil
}

// CompleteGate moves the sequencer out of Gating and returns the committed
// login payload. After the 15s safety timeout the staged login is gone and
// the client has to sign in again.
func (s *authService) CompleteGate(ctx context.Context, sessionID string) (*dto.GateResultResponse, error) {
	seq := s.gate.Sequencer(sessionID)
	if !seq.GateCompleted() {
		return nil, errors.New("no login awaiting gate completion")
	}

	login, ok := s.gate.TakeCommitted(sessionID)
	if !ok {
		return nil, errors.New("login expired, please sign in again")
	}

	return &dto.GateResultResponse{
		AccessToken: login.AccessToken,
		User:        login.UserData,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	row, err := uow.UserRepository().FindRefreshTokenByHash(ctx, hashToken(req.RefreshToken))
	if err != nil || row == nil {
		return nil, errors.New("invalid refresh token")
	}
	if row.Revoked || time.Now().After(row.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}

	user, err := uow.UserRepository().FindByID(ctx, row.UserId)
	if err != nil || user == nil {
		return nil, errors.New("user not found")
	}
	if user.Status == model.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	accessToken, err := signAccessToken(user, uuid.New().String(), s.authCfg)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshTokenResponse{AccessToken: accessToken}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID, refreshToken string) error {
	if sessionID != "" {
		s.sessions.Delete(sessionID)
	}
	if refreshToken == "" {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().RevokeRefreshToken(ctx, hashToken(refreshToken))
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		// Don't leak exists
		return nil
	}

	token := uuid.New().String()
	resetToken := &model.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		CreatedAt: time.Now(),
		Used:      false,
	}

	if err := uow.UserRepository().CreatePasswordResetToken(ctx, resetToken); err != nil {
		return err
	}

	go func() {
		if emailErr := s.emailService.SendResetToken(user.Email, token); emailErr != nil {
			fmt.Printf("Error sending reset password email: %v\n", emailErr)
		}
	}()

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tokenRow, err := uow.UserRepository().FindPasswordResetToken(ctx, req.Token)
	if err != nil || tokenRow == nil {
		return errors.New("invalid or expired token")
	}
	if tokenRow.Used {
		return errors.New("this password reset link has already been used")
	}
	if time.Now().After(tokenRow.ExpiresAt) {
		return errors.New("this password reset link has expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, tokenRow.UserId, string(hash)); err != nil {
		return err
	}
	if err := uow.UserRepository().MarkResetTokenUsed(ctx, tokenRow.Id); err != nil {
		return err
	}

	return uow.Commit()
}

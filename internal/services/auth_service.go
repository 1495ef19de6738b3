package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/codequest/back/internal/models"
	"github.com/codequest/back/internal/repositories"
	"github.com/codequest/back/internal/utils"
)

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	emailSvc    EmailService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	emailSvc EmailService,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		emailSvc:    emailSvc,
	}
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	// ユーザー取得
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return &models.LoginResponse{
			Success: false,
			Error:   "Incorrect username or password",
		}, nil
	}

	// パスワード検証
	if !utils.VerifyPassword(req.Password, user.PasswordHash) {
		return &models.LoginResponse{
			Success: false,
			Error:   "Incorrect username or password",
		}, nil
	}

	// トークン生成
	token, err := s.generateToken()
	if err != nil {
		return &models.LoginResponse{
			Success: false,
			Error:   "Failed to generate authentication token",
		}, nil
	}

	// セッション作成
	expiresAt := time.Now().Add(24 * time.Hour)
	if req.Remember {
		expiresAt = time.Now().Add(30 * 24 * time.Hour) // 30日間
	}

	session := &models.Session{
		ID:        token,
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return &models.LoginResponse{
			Success: false,
			Error:   "Failed to create session",
		}, nil
	}

	return &models.LoginResponse{
		Success: true,
		Token:   token,
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error) {
	// ユーザー取得
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return &models.ForgotPasswordResponse{
			Success: false,
			Error:   "No account found for that username",
		}, nil
	}

	subject := "[CodeQuest] Password reminder"
	body := fmt.Sprintf(`Hello %s,

You requested a reminder for your CodeQuest account.

Username: %s

If you cannot remember your password, please reply to this email and the
support team will reset it for you.

The CodeQuest team
`, user.Username, user.Username)

	if err := s.emailSvc.SendEmail(user.Email, subject, body); err != nil {
		return &models.ForgotPasswordResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to send email: %v", err),
		}, nil
	}

	return &models.ForgotPasswordResponse{
		Success: true,
		Message: "We sent an email with further instructions",
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	// セッション取得
	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}

	// 有効期限チェック
	if time.Now().After(session.ExpiresAt) {
		s.sessionRepo.Delete(ctx, token) // 期限切れセッションを削除
		return nil, fmt.Errorf("token expired")
	}

	// セッションに保存されたUsernameを使用してユーザーを取得
	user, err := s.userRepo.GetByUsername(ctx, session.Username)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	// セッションのUserIDと取得したユーザーのIDが一致するかチェック
	if user.ID != session.UserID {
		return nil, fmt.Errorf("user session mismatch")
	}

	return user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// generateToken generates a random token
func (s *authService) generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

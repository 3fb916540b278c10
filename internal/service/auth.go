package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"
	"hazel-marketplace/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	emailSvc EmailService
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, emailSvc EmailService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		emailSvc: emailSvc,
	}
}

// defaultAvatarURL builds a generated initials avatar for new accounts.
func defaultAvatarURL(first, last string) string {
	name := strings.TrimSpace(first + " " + last)
	return "https://ui-avatars.com/api/?background=random&name=" + url.QueryEscape(name)
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	logger.EnterMethod("authService.Signup", "email", in.Email, "role", in.Role)

	if in.Role != domain.UserRoleRenter && in.Role != domain.UserRoleOwner {
		logger.ExitMethodWithError("authService.Signup", ErrInvalidRole, "role", in.Role)
		return nil, ErrInvalidRole
	}
	first := strings.TrimSpace(in.FirstName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if first == "" {
		return nil, invalid("first name is required")
	}
	if email == "" {
		return nil, invalid("email is required")
	}
	if err := security.CheckNewPassword(in.Password, in.ConfirmPassword); err != nil {
		logger.ExitMethodWithError("authService.Signup", err)
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		logger.ExitMethodWithError("authService.Signup", ErrEmailTaken, "email", email)
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	last := strings.TrimSpace(in.LastName)
	user := &domain.User{
		Email:              email,
		PasswordHash:       hash,
		Role:               in.Role,
		FirstName:          first,
		LastName:           last,
		Phone:              strings.TrimSpace(in.Phone),
		Address:            strings.TrimSpace(in.Address),
		ProfilePicURL:      defaultAvatarURL(first, last),
		VerificationStatus: domain.VerificationUnverified,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Signup", err, "reason", "failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.FullName(), user.Role); err != nil {
		logger.Warn("Failed to send welcome email", "userID", user.ID, "error", err)
	}

	logger.ExitMethod("authService.Signup", "userID", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *authService) Login(ctx context.Context, email, password string, portal domain.UserRole) (*AuthResult, error) {
	logger.EnterMethod("authService.Login", "email", email, "portal", portal)

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !security.ComparePassword(user.PasswordHash, password) {
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "reason", "bad password", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}
	if portal != "" && user.Role != portal {
		err := &PortalError{Role: user.Role, Portal: portal}
		logger.ExitMethodWithError("authService.Login", err, "userID", user.ID)
		return nil, err
	}

	tokens, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("authService.Login", "userID", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (*security.TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refresh, security.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	// reload so a changed role or deleted account is honoured
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, security.ErrInvalidToken
		}
		return nil, err
	}

	s.tokens.Revoke(claims)
	return s.tokens.GeneratePair(user)
}

func (s *authService) Logout(ctx context.Context, refresh string) error {
	claims, err := s.tokens.ValidateToken(refresh, security.TokenTypeRefresh)
	if err != nil {
		// already unusable
		if errors.Is(err, security.ErrExpiredToken) || errors.Is(err, security.ErrRevokedToken) {
			return nil
		}
		return err
	}
	s.tokens.Revoke(claims)
	logger.Info("User logged out", "userID", claims.UserID)
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int32, newPassword, confirm string) error {
	if err := security.CheckNewPassword(newPassword, confirm); err != nil {
		return err
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"grocery-price-tracker/domain"
	"grocery-price-tracker/entities"
	"grocery-price-tracker/internal/utils/mailing"
	"grocery-price-tracker/pkg/jwt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.TokenResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error)
		GetOrCreateOAuthUser(ctx context.Context, email, name, provider, oauthID string) (domain.TokenResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		UpdateUser(ctx context.Context, userID string, req domain.UpdateUserRequest) (domain.UserResponse, error)
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
		appURL         string
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, mailer mailing.Mailer, appURL string) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
		appURL:         appURL,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.TokenResponse, error) {
	if _, err := s.userRepository.FindByEmail(ctx, req.Email); err == nil {
		return domain.TokenResponse{}, domain.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.TokenResponse{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	if !validCurrency(currency) {
		return domain.TokenResponse{}, domain.ErrInvalidCurrency
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Currency:     currency,
	}

	if err := s.userRepository.Create(ctx, user); err != nil {
		return domain.TokenResponse{}, err
	}

	if s.mailer != nil && s.mailer.Configured() {
		body := fmt.Sprintf("<p>Hi %s,</p><p>Your grocery price tracker account is ready.</p>", user.Name)
		if err := s.mailer.Send(user.Email, "Welcome to Grocery Price Tracker", body); err != nil {
			log.Warnf("failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return s.tokenFor(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error) {
	user, err := s.userRepository.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TokenResponse{}, domain.ErrInvalidCredentials
		}
		return domain.TokenResponse{}, err
	}

	if user.PasswordHash == "" {
		return domain.TokenResponse{}, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.TokenResponse{}, domain.ErrInvalidCredentials
	}

	return s.tokenFor(user), nil
}

// GetOrCreateOAuthUser upserts an account for an identity supplied by an
// external provider. Provider details are recorded on first link only.
func (s *userService) GetOrCreateOAuthUser(ctx context.Context, email, name, provider, oauthID string) (domain.TokenResponse, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err == nil {
		if user.OAuthProvider == "" {
			user.OAuthProvider = provider
			user.OAuthID = oauthID
			if err := s.userRepository.Update(ctx, user); err != nil {
				return domain.TokenResponse{}, err
			}
		}
		return s.tokenFor(user), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.TokenResponse{}, err
	}

	user = &entities.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          name,
		Currency:      "USD",
		OAuthProvider: provider,
		OAuthID:       oauthID,
	}
	if err := s.userRepository.Create(ctx, user); err != nil {
		return domain.TokenResponse{}, err
	}

	return s.tokenFor(user), nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	user, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Currency != nil {
		if !validCurrency(*req.Currency) {
			return domain.UserResponse{}, domain.ErrInvalidCurrency
		}
		user.Currency = *req.Currency
	}

	if err := s.userRepository.Update(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	return toUserResponse(user), nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenResetPassword(map[string]any{
		"user_id": user.ID.String(),
		"email":   user.Email,
	}, time.Minute*30)
	if err != nil {
		return err
	}

	if s.mailer == nil || !s.mailer.Configured() {
		return domain.ErrMailerNotConfigured
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Use the link below to reset your password. It expires in 30 minutes.</p><p><a href=%q>Reset password</a></p>",
		user.Name, resetLink,
	)

	return s.mailer.Send(user.Email, "Reset your password", body)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenResetPassword(req.Token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return s.userRepository.Update(ctx, user)
}

func (s *userService) tokenFor(user *entities.User) domain.TokenResponse {
	return domain.TokenResponse{
		AccessToken: s.jwtService.GenerateTokenUser(user.ID.String(), user.Email),
		TokenType:   "bearer",
		User:        toUserResponse(user),
	}
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Currency:  user.Currency,
		CreatedAt: user.CreatedAt,
	}
}

func validCurrency(code string) bool {
	for _, c := range domain.SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

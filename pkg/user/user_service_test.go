package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"grocery-price-tracker/domain"
	"grocery-price-tracker/entities"
	"grocery-price-tracker/pkg/jwt"
)

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) Send(toEmail, subject, body string) error {
	m.sent = append(m.sent, toEmail)
	return nil
}

func (m *fakeMailer) Configured() bool { return true }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Receipt{}, &entities.Item{}))
	return db
}

func newService(db *gorm.DB) (UserService, jwt.JWTService) {
	jwtService := jwt.NewJWTService("test-secret")
	return NewUserService(NewUserRepository(db), jwtService, nil, "http://localhost:3000"), jwtService
}

func strPtr(s string) *string { return &s }

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	service, jwtService := newService(db)
	ctx := context.Background()

	registered, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "shopper@example.com",
		Password: "supersecret",
		Name:     "Shopper",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "bearer", registered.TokenType)
	assert.Equal(t, "USD", registered.User.Currency)

	userID, err := jwtService.GetUserIDByToken(registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, userID)

	loggedIn, err := service.Login(ctx, domain.LoginRequest{
		Email:    "shopper@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	service, _ := newService(db)
	ctx := context.Background()

	req := domain.RegisterRequest{Email: "dup@example.com", Password: "supersecret", Name: "First"}
	_, err := service.Register(ctx, req)
	require.NoError(t, err)

	req.Name = "Second"
	_, err = service.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
}

func TestRegisterInvalidCurrency(t *testing.T) {
	db := newTestDB(t)
	service, _ := newService(db)

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Email:    "currency@example.com",
		Password: "supersecret",
		Name:     "Shopper",
		Currency: "DOGE",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	service, _ := newService(db)
	ctx := context.Background()

	_, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "login@example.com",
		Password: "supersecret",
		Name:     "Shopper",
	})
	require.NoError(t, err)

	_, err = service.Login(ctx, domain.LoginRequest{Email: "login@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// An unknown email answers the same as a wrong password.
	_, err = service.Login(ctx, domain.LoginRequest{Email: "ghost@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMeAndUpdateUser(t *testing.T) {
	db := newTestDB(t)
	service, _ := newService(db)
	ctx := context.Background()

	registered, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "me@example.com",
		Password: "supersecret",
		Name:     "Shopper",
	})
	require.NoError(t, err)

	me, err := service.Me(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", me.Email)

	updated, err := service.UpdateUser(ctx, registered.User.ID, domain.UpdateUserRequest{
		Name:     strPtr("Renamed"),
		Currency: strPtr("EGP"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "EGP", updated.Currency)

	_, err = service.UpdateUser(ctx, registered.User.ID, domain.UpdateUserRequest{
		Currency: strPtr("XYZ"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)

	_, err = service.Me(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetOrCreateOAuthUser(t *testing.T) {
	db := newTestDB(t)
	service, _ := newService(db)
	ctx := context.Background()

	first, err := service.GetOrCreateOAuthUser(ctx, "oauth@example.com", "OAuth Shopper", "google", "google-123")
	require.NoError(t, err)
	assert.NotEmpty(t, first.AccessToken)

	second, err := service.GetOrCreateOAuthUser(ctx, "oauth@example.com", "OAuth Shopper", "google", "google-123")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	var count int64
	require.NoError(t, db.Model(&entities.User{}).Where("email = ?", "oauth@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// A password account later signing in through a provider gets linked.
	registered, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "linked@example.com",
		Password: "supersecret",
		Name:     "Linked",
	})
	require.NoError(t, err)

	linked, err := service.GetOrCreateOAuthUser(ctx, "linked@example.com", "Linked", "google", "google-456")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, linked.User.ID)

	var stored entities.User
	require.NoError(t, db.First(&stored, "email = ?", "linked@example.com").Error)
	assert.Equal(t, "google", stored.OAuthProvider)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestForgotPasswordRequiresMailer(t *testing.T) {
	db := newTestDB(t)
	service, _ := newService(db)
	ctx := context.Background()

	_, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "forgot@example.com",
		Password: "supersecret",
		Name:     "Shopper",
	})
	require.NoError(t, err)

	err = service.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "forgot@example.com"})
	assert.ErrorIs(t, err, domain.ErrMailerNotConfigured)

	err = service.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestForgotPasswordSendsResetMail(t *testing.T) {
	db := newTestDB(t)
	jwtService := jwt.NewJWTService("test-secret")
	mailer := &fakeMailer{}
	service := NewUserService(NewUserRepository(db), jwtService, mailer, "http://localhost:3000")
	ctx := context.Background()

	_, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "reset@example.com",
		Password: "supersecret",
		Name:     "Shopper",
	})
	require.NoError(t, err)

	require.NoError(t, service.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "reset@example.com"}))
	assert.Contains(t, mailer.sent, "reset@example.com")
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	service, jwtService := newService(db)
	ctx := context.Background()

	registered, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "rotate@example.com",
		Password: "old-password",
		Name:     "Shopper",
	})
	require.NoError(t, err)

	token, err := jwtService.GenerateTokenResetPassword(map[string]any{
		"user_id": registered.User.ID,
		"email":   registered.User.Email,
	}, time.Minute*30)
	require.NoError(t, err)

	require.NoError(t, service.ResetPassword(ctx, domain.ResetPasswordRequest{
		Token:    token,
		Password: "new-password",
	}))

	_, err = service.Login(ctx, domain.LoginRequest{Email: "rotate@example.com", Password: "old-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	loggedIn, err := service.Login(ctx, domain.LoginRequest{Email: "rotate@example.com", Password: "new-password"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	assert.ErrorIs(t, service.ResetPassword(ctx, domain.ResetPasswordRequest{
		Token:    "not-a-token",
		Password: "whatever123",
	}), domain.ErrTokenInvalid)
}

package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gameinsight/internal/config"
	"gameinsight/internal/http-api/models"
	"gameinsight/internal/http-api/service"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret-that-is-long-enough-123456",
		JWTExpiry: time.Hour,
	}
}

func TestLogin_Success(t *testing.T) {
	hashed, err := service.HashPassword("correct-horse")
	require.NoError(t, err)

	user := &models.User{
		ID:       "user-1",
		Email:    "admin@example.com",
		Password: hashed,
		Role:     "admin",
		IsActive: true,
	}

	repo := new(MockUserRepository)
	repo.On("FindByEmail", "admin@example.com").Return(user, nil).Once()
	repo.On("UpdateLastLogin", "user-1").Return(nil).Once()

	svc := service.NewAuthService(repo, testConfig())

	token, got, err := svc.Login("admin@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin@example.com", got.Email)
	repo.AssertExpectations(t)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed, err := service.HashPassword("correct-horse")
	require.NoError(t, err)

	user := &models.User{ID: "user-1", Email: "admin@example.com", Password: hashed, IsActive: true}

	repo := new(MockUserRepository)
	repo.On("FindByEmail", "admin@example.com").Return(user, nil).Once()

	svc := service.NewAuthService(repo, testConfig())
	_, _, err = svc.Login("admin@example.com", "battery-staple")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", "nobody@example.com").Return(nil, assert.AnError).Once()

	svc := service.NewAuthService(repo, testConfig())
	_, _, err := svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	hashed, err := service.HashPassword("correct-horse")
	require.NoError(t, err)

	user := &models.User{ID: "user-1", Email: "admin@example.com", Password: hashed, IsActive: false}

	repo := new(MockUserRepository)
	repo.On("FindByEmail", "admin@example.com").Return(user, nil).Once()

	svc := service.NewAuthService(repo, testConfig())
	_, _, err = svc.Login("admin@example.com", "correct-horse")
	assert.ErrorIs(t, err, service.ErrUserDisabled)
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	svc := service.NewAuthService(new(MockUserRepository), testConfig())
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	repo := new(MockUserRepository)
	hashed, err := service.HashPassword("pw-123456")
	require.NoError(t, err)
	user := &models.User{ID: "u", Email: "a@b.c", Password: hashed, IsActive: true}
	repo.On("FindByEmail", "a@b.c").Return(user, nil).Once()
	repo.On("UpdateLastLogin", "u").Return(nil).Once()

	issuer := service.NewAuthService(repo, testConfig())
	token, _, err := issuer.Login("a@b.c", "pw-123456")
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "a-completely-different-secret-987654321"
	verifier := service.NewAuthService(new(MockUserRepository), other)
	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	existing := &models.User{ID: "user-1", Email: "admin@example.com"}

	repo := new(MockUserRepository)
	repo.On("FindByEmail", "admin@example.com").Return(existing, nil).Once()

	svc := service.NewAuthService(repo, testConfig())
	_, err := svc.Register("admin@example.com", "pw-123456", "admin")
	assert.ErrorIs(t, err, service.ErrEmailInUse)
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", "new@example.com").Return(nil, assert.AnError).Once()
	repo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "new@example.com" && u.Password != "pw-123456" && u.Role == "admin"
	})).Return(nil).Once()

	svc := service.NewAuthService(repo, testConfig())
	user, err := svc.Register("new@example.com", "pw-123456", "admin")
	require.NoError(t, err)
	assert.NoError(t, service.VerifyPassword(user.Password, "pw-123456"))
	repo.AssertExpectations(t)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
	"github.com/thetpaing-dev/grant_portal_app/internal/utils"
	"github.com/thetpaing-dev/grant_portal_app/pkg/config"
)

// MockUserService is a mock implementation of portssvc.UserSvcFacade
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	args := m.Called(ctx, userID, requestingUserID)
	return args.Error(0)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

type TokenServiceTestSuite struct {
	suite.Suite
	mockUserService *MockUserService
	cfg             *config.Config
	service         portssvc.TokenSvcFacade
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.mockUserService = new(MockUserService)
	suite.cfg = &config.Config{
		JWTSecret:                  "test-secret",
		JWTIssuer:                  "grant-portal-test",
		JWTExpiryDuration:          15 * time.Minute,
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
	suite.service = services.NewTokenService(suite.cfg, suite.mockUserService)
}

func (suite *TokenServiceTestSuite) TestGenerateAccessToken() {
	ctx := context.Background()
	user := &domain.User{UserID: "user-1"}

	token, expiry, err := suite.service.GenerateAccessToken(ctx, user)

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.True(expiry.After(time.Now()))
}

func (suite *TokenServiceTestSuite) TestGenerateRefreshToken_RawTokenNotAHash() {
	ctx := context.Background()
	user := &domain.User{UserID: "user-1"}

	raw, expiry, err := suite.service.GenerateRefreshToken(ctx, user)

	suite.Require().NoError(err)
	suite.NotEmpty(raw)
	suite.True(expiry.After(time.Now()))
	// the stored hash must verify against the raw token the client holds
	suite.True(utils.CompareRefreshTokenHash(raw, utils.HashRefreshToken(raw)))
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_Success() {
	ctx := context.Background()
	raw := "raw-refresh-token"
	expiry := time.Now().Add(time.Hour)
	user := &domain.User{
		UserID:                 "user-1",
		RefreshTokenHash:       utils.HashRefreshToken(raw),
		RefreshTokenExpiryTime: &expiry,
	}

	suite.mockUserService.On("GetUserByID", ctx, "user-1").Return(user, nil).Once()

	got, err := suite.service.ValidateAndParseRefreshToken(ctx, "user-1", raw)

	suite.Require().NoError(err)
	suite.Equal("user-1", got.UserID)
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_WrongToken() {
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)
	user := &domain.User{
		UserID:                 "user-1",
		RefreshTokenHash:       utils.HashRefreshToken("the-real-token"),
		RefreshTokenExpiryTime: &expiry,
	}

	suite.mockUserService.On("GetUserByID", ctx, "user-1").Return(user, nil).Once()

	_, err := suite.service.ValidateAndParseRefreshToken(ctx, "user-1", "a-different-token")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_Expired() {
	ctx := context.Background()
	raw := "raw-refresh-token"
	expiry := time.Now().Add(-time.Minute)
	user := &domain.User{
		UserID:                 "user-1",
		RefreshTokenHash:       utils.HashRefreshToken(raw),
		RefreshTokenExpiryTime: &expiry,
	}

	suite.mockUserService.On("GetUserByID", ctx, "user-1").Return(user, nil).Once()

	_, err := suite.service.ValidateAndParseRefreshToken(ctx, "user-1", raw)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_NoStoredToken() {
	ctx := context.Background()
	user := &domain.User{UserID: "user-1"}

	suite.mockUserService.On("GetUserByID", ctx, "user-1").Return(user, nil).Once()

	_, err := suite.service.ValidateAndParseRefreshToken(ctx, "user-1", "anything")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_UnknownUser() {
	ctx := context.Background()

	suite.mockUserService.On("GetUserByID", ctx, "user-missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ValidateAndParseRefreshToken(ctx, "user-missing", "anything")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"trznica/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-for-auth-suite"

type AuthServiceTestSuite struct {
	suite.Suite
	cacheSvc *MockCacheService
	service  AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.cacheSvc = &MockCacheService{}
	suite.service = NewAuthService(suite.cacheSvc, testJWTSecret, 900, 3600)

	suite.cacheSvc.Test(suite.T())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.cacheSvc.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// signTestToken builds an access token with arbitrary registered claims,
// signed with the suite secret.
func signTestToken(userID uuid.UUID, issuer, audience string) string {
	now := time.Now()
	claims := TokenClaims{
		UserID: userID.String(),
		Role:   models.RoleConsumer,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

func (suite *AuthServiceTestSuite) TestGenerateAndValidateRoundTrip() {
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Role: models.RoleFarmer}
	suite.cacheSvc.On("SetString", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), 3600*time.Second).Return(nil)

	tokens, err := suite.service.GenerateTokens(ctx, user)
	suite.NoError(err)
	suite.NotEmpty(tokens.RefreshToken)

	claims, err := suite.service.ValidateToken(ctx, tokens.AccessToken)
	suite.NoError(err)
	suite.Equal(user.ID.String(), claims.UserID)
	suite.Equal(models.RoleFarmer, claims.Role)
}

func (suite *AuthServiceTestSuite) TestValidateToken_WrongIssuerRejected() {
	token := signTestToken(uuid.New(), "someone-else", tokenAudience)

	_, err := suite.service.ValidateToken(context.Background(), token)

	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestValidateToken_WrongAudienceRejected() {
	token := signTestToken(uuid.New(), tokenIssuer, "another-api")

	_, err := suite.service.ValidateToken(context.Background(), token)

	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestRefreshToken_RotatesStoredToken() {
	ctx := context.Background()
	userID := uuid.New()
	oldToken := "stari-zeton"
	cacheKey := fmt.Sprintf("refresh_token:%s", hashRefreshToken(oldToken))
	stored := fmt.Sprintf("%s:%s:%d", userID.String(), models.RoleConsumer, time.Now().Unix()+3600)

	suite.cacheSvc.On("GetString", ctx, cacheKey).Return(stored, nil)
	suite.cacheSvc.On("Delete", ctx, cacheKey).Return(nil)
	suite.cacheSvc.On("SetString", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), 3600*time.Second).Return(nil)

	tokens, err := suite.service.RefreshToken(ctx, oldToken)

	suite.NoError(err)
	suite.NotEqual(oldToken, tokens.RefreshToken)

	claims, err := suite.service.ValidateToken(ctx, tokens.AccessToken)
	suite.NoError(err)
	suite.Equal(userID.String(), claims.UserID)
	suite.Equal(models.RoleConsumer, claims.Role)
}

func (suite *AuthServiceTestSuite) TestRefreshToken_ExpiredTokenDropped() {
	ctx := context.Background()
	oldToken := "pretekel-zeton"
	cacheKey := fmt.Sprintf("refresh_token:%s", hashRefreshToken(oldToken))
	stored := fmt.Sprintf("%s:%s:%d", uuid.NewString(), models.RoleConsumer, time.Now().Unix()-10)

	suite.cacheSvc.On("GetString", ctx, cacheKey).Return(stored, nil)
	suite.cacheSvc.On("Delete", ctx, cacheKey).Return(nil)

	_, err := suite.service.RefreshToken(ctx, oldToken)

	suite.ErrorContains(err, "expired")
}

func (suite *AuthServiceTestSuite) TestRefreshToken_UnknownTokenRejected() {
	ctx := context.Background()
	suite.cacheSvc.On("GetString", ctx, mock.AnythingOfType("string")).Return("", nil)

	_, err := suite.service.RefreshToken(ctx, "neznan-zeton")

	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestRefreshToken_MalformedRecordRejected() {
	ctx := context.Background()
	oldToken := "pokvarjen-zapis"
	cacheKey := fmt.Sprintf("refresh_token:%s", hashRefreshToken(oldToken))
	suite.cacheSvc.On("GetString", ctx, cacheKey).Return("samo:dva", nil)

	_, err := suite.service.RefreshToken(ctx, oldToken)

	suite.ErrorContains(err, "invalid token data")
}

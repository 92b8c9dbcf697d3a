package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vidtube/internal/config"
	"vidtube/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================

// mockRefreshTokenRepository backs the auth service with an in-memory token
// store keyed by hash, close enough to the real table for rotation tests.
type mockRefreshTokenRepository struct {
	tokens map[string]*model.RefreshToken // keyed by TokenHash

	revokeAllCalls []int64
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*model.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	token.CreatedAt = time.Now()
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok {
		return nil, model.ErrRefreshTokenNotFound
	}
	return token, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, id string, replacedBy *string) error {
	for _, token := range m.tokens {
		if token.ID == id && token.RevokedAt == nil {
			now := time.Now()
			token.RevokedAt = &now
			token.ReplacedBy = replacedBy
			return nil
		}
	}
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	m.revokeAllCalls = append(m.revokeAllCalls, userID)
	now := time.Now()
	for _, token := range m.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 2592000,
	}
}

// =============================================================================
// TOKEN PAIR TESTS
// =============================================================================

func TestAuthService_GenerateTokenPair(t *testing.T) {
	mockRepo := newMockRefreshTokenRepository()
	svc := NewAuthService(mockRepo, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be set")
	}
	if pair.ExpiresIn != 900 {
		t.Errorf("expiresIn = %d, want 900", pair.ExpiresIn)
	}

	// The access token must be a valid HS256 JWT carrying the user id
	parsed, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token should parse and validate: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if int64(claims["user_id"].(float64)) != 5 {
		t.Errorf("user_id claim = %v, want 5", claims["user_id"])
	}

	// The stored refresh token must be hashed, never the raw value
	if len(mockRepo.tokens) != 1 {
		t.Fatalf("stored %d tokens, want 1", len(mockRepo.tokens))
	}
	for hash, stored := range mockRepo.tokens {
		if hash == pair.RefreshToken {
			t.Error("refresh token stored raw, want a hash")
		}
		if stored.UserID != 5 {
			t.Errorf("stored userID = %d, want 5", stored.UserID)
		}
		if !stored.ExpiresAt.After(time.Now()) {
			t.Error("stored token should not be expired")
		}
	}
}

// =============================================================================
// REFRESH TESTS
// =============================================================================

func TestAuthService_RefreshTokens_Rotates(t *testing.T) {
	mockRepo := newMockRefreshTokenRepository()
	svc := NewAuthService(mockRepo, testAuthConfig())

	first, err := svc.GenerateTokenPair(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, userID, err := svc.RefreshTokens(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if userID != 5 {
		t.Errorf("userID = %d, want 5", userID)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token should rotate to a new value")
	}

	// The old token must now be revoked and linked to its replacement
	old, err := mockRepo.FindByTokenHash(context.Background(), svc.hashToken(first.RefreshToken))
	if err != nil {
		t.Fatalf("old token should still exist: %v", err)
	}
	if !old.IsRevoked() {
		t.Error("old token should be revoked after rotation")
	}
	if old.ReplacedBy == nil {
		t.Error("old token should record which token replaced it")
	}
}

func TestAuthService_RefreshTokens_ReuseRevokesFamily(t *testing.T) {
	mockRepo := newMockRefreshTokenRepository()
	svc := NewAuthService(mockRepo, testAuthConfig())

	first, err := svc.GenerateTokenPair(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.RefreshTokens(context.Background(), first.RefreshToken); err != nil {
		t.Fatalf("first refresh should succeed: %v", err)
	}

	// Presenting the already rotated token again is reuse, likely theft.
	_, _, err = svc.RefreshTokens(context.Background(), first.RefreshToken)
	if !errors.Is(err, model.ErrRefreshTokenReused) {
		t.Fatalf("error = %v, want %v", err, model.ErrRefreshTokenReused)
	}

	if len(mockRepo.revokeAllCalls) != 1 || mockRepo.revokeAllCalls[0] != 5 {
		t.Errorf("RevokeAllForUser calls = %v, want one call for user 5", mockRepo.revokeAllCalls)
	}

	// Every token in the family is now dead
	for _, token := range mockRepo.tokens {
		if !token.IsRevoked() {
			t.Errorf("token %s should be revoked after reuse detection", token.ID)
		}
	}
}

func TestAuthService_RefreshTokens_Expired(t *testing.T) {
	mockRepo := newMockRefreshTokenRepository()
	cfg := testAuthConfig()
	cfg.RefreshTokenMaxAge = -1 // already expired when issued
	svc := NewAuthService(mockRepo, cfg)

	pair, err := svc.GenerateTokenPair(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = svc.RefreshTokens(context.Background(), pair.RefreshToken)
	if !errors.Is(err, model.ErrRefreshTokenExpired) {
		t.Errorf("error = %v, want %v", err, model.ErrRefreshTokenExpired)
	}
}

func TestAuthService_RefreshTokens_Unknown(t *testing.T) {
	svc := NewAuthService(newMockRefreshTokenRepository(), testAuthConfig())

	_, _, err := svc.RefreshTokens(context.Background(), "never-issued")
	if !errors.Is(err, model.ErrRefreshTokenNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrRefreshTokenNotFound)
	}
}

// =============================================================================
// REVOKE TESTS
// =============================================================================

func TestAuthService_RevokeRefreshToken(t *testing.T) {
	mockRepo := newMockRefreshTokenRepository()
	svc := NewAuthService(mockRepo, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RevokeRefreshToken(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, _ := mockRepo.FindByTokenHash(context.Background(), svc.hashToken(pair.RefreshToken))
	if !token.IsRevoked() {
		t.Error("token should be revoked after logout")
	}
}

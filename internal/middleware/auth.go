// file: internal/middleware/auth.go
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"socialfeed/internal/contextutils"
	"socialfeed/internal/response"
	"socialfeed/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// MsgNotAuthenticated is returned for every rejected token
const MsgNotAuthenticated = "Not authenticated"

// AuthConfig holds authentication middleware configuration
type AuthConfig struct {
	JWTSecret string        `json:"-"`
	JWTIssuer string        `json:"jwt_issuer"`
	Leeway    time.Duration `json:"leeway"`
}

// Claims are the JWT claims issued by the account service
type Claims struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates HS256 bearer tokens
type AuthMiddleware struct {
	config *AuthConfig
	parser *jwt.Parser
	logger *zap.Logger
}

// NewAuthMiddleware creates authentication middleware
func NewAuthMiddleware(config *AuthConfig, logger *zap.Logger) (*AuthMiddleware, error) {
	if config == nil || config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(config.Leeway),
	}
	if config.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(config.JWTIssuer))
	}

	return &AuthMiddleware{
		config: config,
		parser: jwt.NewParser(opts...),
		logger: logger,
	}, nil
}

// RequireAuth rejects requests without a valid token with 401
func (am *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, err := am.authenticate(r)
			if err != nil {
				contextutils.GetLogger(ctx, am.logger).Debug("Authentication failed", zap.Error(err))
				response.QuickError(w, r, services.NewUnauthorizedError(MsgNotAuthenticated))
				return
			}

			ctx = contextutils.WithUserID(ctx, claims.Subject)
			ctx = contextutils.WithUsername(ctx, claims.Username)
			ctx = contextutils.WithAvatar(ctx, claims.Avatar)
			ctx = contextutils.WithLogger(ctx, contextutils.GetLogger(ctx, am.logger).With(
				zap.String("user_id", claims.Subject),
			))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate extracts and validates the bearer token
func (am *AuthMiddleware) authenticate(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("no authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, errors.New("invalid authorization header format")
	}

	claims := &Claims{}
	token, err := am.parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(am.config.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token not valid")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// IssueToken signs a token for a user; used by tooling and tests
func IssueToken(secret, userID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

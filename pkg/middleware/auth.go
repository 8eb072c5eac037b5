package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"perfume-collection/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityClaims are the claims of an access token minted by the hosted
// identity provider.
type IdentityClaims struct {
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

type UserMetadata struct {
	FullName  string `json:"full_name,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Picture   string `json:"picture,omitempty"`
}

// TokenVerifier validates HS256 access tokens against the shared secret.
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(config utils.JWTConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(config.Secret),
		issuer: config.Issuer,
	}
}

// Verify checks signature, expiry and issuer and returns the identity.
func (v *TokenVerifier) Verify(tokenString string) (utils.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return utils.Identity{}, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return utils.Identity{}, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return utils.Identity{}, fmt.Errorf("invalid subject %q: %w", claims.Subject, err)
	}

	return utils.Identity{
		UserID:    userID,
		Email:     claims.Email,
		Name:      firstNonEmpty(claims.UserMetadata.FullName, claims.UserMetadata.Name),
		AvatarURL: firstNonEmpty(claims.UserMetadata.AvatarURL, claims.UserMetadata.Picture),
	}, nil
}

func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}

// Authenticate resolves the bearer token, when present, into a request
// scoped identity. Requests without a token continue anonymously; a
// malformed or invalid token is rejected.
func Authenticate(verifier *TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}
			token = strings.TrimSpace(token)

			identity, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("Invalid access token",
					zap.Error(err),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetIdentityContext(r.Context(), identity)))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetIdentityFromContext(r.Context()); !ok {
			utils.ResponseUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

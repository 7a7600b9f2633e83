package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"focusframe-server/internal/config"
	"focusframe-server/internal/domain/owner"
	"focusframe-server/internal/utils/platformerrors"
)

const (
	// ContextKeyIdentity holds the caller's owner.Identity.
	ContextKeyIdentity = "identity"
	// ContextKeyUserID holds the caller's owner id ("" when anonymous).
	ContextKeyUserID = "user_id"

	// HeaderUserID supplies the owner when auth is disabled.
	HeaderUserID = "X-User-ID"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// Validator validates JWTs using JWKS.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	log = log.With().Str("component", "auth").Logger()
	if !cfg.AuthEnabled {
		log.Warn().Msg("auth disabled, owner taken from X-User-ID")
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:  cfg,
		log:  log,
		jwks: jwks,
	}, nil
}

// Enabled reports whether tokens are verified.
func (v *Validator) Enabled() bool {
	return v != nil && v.cfg.AuthEnabled
}

// ValidateToken verifies a bearer token and returns the identity it carries.
// With auth disabled the raw value is taken as the owner id.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (owner.Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if !v.Enabled() {
		return owner.Identity{ID: tokenString}, nil
	}
	if tokenString == "" {
		return owner.Identity{}, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc,
		jwt.WithAudience(v.cfg.AuthAudience),
		jwt.WithIssuer(v.cfg.AuthIssuer),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	)
	if err != nil || !token.Valid {
		v.log.Debug().Err(err).Msg("token rejected")
		return owner.Identity{}, ErrInvalidToken
	}
	return claims.Identity(), nil
}

// Middleware resolves the caller's identity. A request without credentials
// continues as the anonymous owner; a request with a bad token is rejected.
func (v *Validator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			identity owner.Identity
			err      error
		)

		if v.Enabled() {
			raw := bearerToken(c.GetHeader("Authorization"))
			if raw == "" {
				// EventSource and WebSocket clients cannot set headers.
				raw = strings.TrimSpace(c.Query("access_token"))
			}
			if raw != "" {
				identity, err = v.ValidateToken(c.Request.Context(), raw)
			}
		} else {
			identity = owner.Identity{ID: strings.TrimSpace(c.GetHeader(HeaderUserID))}
		}

		if err != nil {
			platformerrors.WriteUnauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Set(ContextKeyUserID, identity.ID)
		c.Next()
	}
}

// IdentityFrom returns the identity set by Middleware.
func IdentityFrom(c *gin.Context) owner.Identity {
	if v, ok := c.Get(ContextKeyIdentity); ok {
		if identity, ok := v.(owner.Identity); ok {
			return identity
		}
	}
	return owner.Identity{}
}

// OwnerID returns the caller's owner id, "" when anonymous.
func OwnerID(c *gin.Context) string {
	return IdentityFrom(c).ID
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

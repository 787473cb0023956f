package auth

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"zoo-server/services/media-api/internal/config"
)

const (
	ContextKeyToken   = "auth_token"
	ContextKeySubject = "auth_subject"
)

// Validator checks bearer JWTs against the issuer's JWKS. A nil or disabled
// Validator lets every request through.
type Validator struct {
	enabled  bool
	issuer   string
	audience string
	keyfunc  jwt.Keyfunc
	ready    atomic.Bool
	log      zerolog.Logger
}

// NewValidator starts JWKS fetching when auth is enabled. The first fetch
// runs in the background so the service can boot while the issuer is down.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) *Validator {
	logger := log.With().Str("component", "auth").Logger()
	v := &Validator{
		enabled:  cfg.AuthEnabled,
		issuer:   cfg.AuthIssuer,
		audience: cfg.AuthAudience,
		log:      logger,
	}
	if !v.enabled {
		v.ready.Store(true)
		return v
	}

	go v.load(ctx, cfg.AuthJWKSURL)
	return v
}

func (v *Validator) load(ctx context.Context, jwksURL string) {
	backoff := time.Second
	for {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				v.log.Error().Err(err).Msg("jwks refresh error")
			},
		})
		if err == nil {
			v.keyfunc = jwks.Keyfunc
			v.ready.Store(true)
			v.log.Info().Str("jwks_url", jwksURL).Msg("jwks loaded")
			return
		}

		v.log.Warn().Err(err).Dur("retry_in", backoff).Msg("jwks fetch failed")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < time.Minute {
			backoff *= 2
		}
	}
}

// Ready reports whether tokens can be validated.
func (v *Validator) Ready() bool {
	return v == nil || v.ready.Load()
}

// Middleware enforces bearer auth when enabled.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if !v.ready.Load() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Authentication unavailable",
				"details": "signing keys have not been loaded yet",
			})
			return
		}

		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		token, err := jwt.Parse(tokenString, v.keyfunc, v.parserOptions()...)
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ContextKeyToken, token)
		if subject, err := token.Claims.GetSubject(); err == nil && subject != "" {
			c.Set(ContextKeySubject, subject)
		}
		c.Next()
	}
}

func (v *Validator) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	return opts
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "Unauthorized",
		"details": message,
	})
}

// Package services holds the adapter-level services internal/http and
// internal/app wire together; the core packages (internal/orchestrator,
// internal/retrieval, internal/recommend, internal/catalog) know nothing
// about HTTP or caller identity.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/labcold/catalog/internal/platform/apierr"
	"github.com/labcold/catalog/internal/platform/ctxutil"
	"github.com/labcold/catalog/internal/platform/logger"
)

// Roles is the closed set spec.md §6 names for the auth boundary.
var Roles = map[string]bool{
	"customer":         true,
	"sales_engineer":   true,
	"product_manager":  true,
	"admin":            true,
}

// JWTClaims is the shape of an optional signed bearer token, an
// alternative to a static API key for service-to-service calls
// (grounded on the teacher's JWTClaims/SetContextFromToken pattern).
type JWTClaims struct {
	jwt.RegisteredClaims
	Role       string `json:"role"`
	BrandScope string `json:"brand_scope,omitempty"`
}

// AuthService resolves a caller's presented credential (an X-API-Key
// header or a bearer JWT) to the (caller_id, role, brand_scope) tuple
// spec.md §6 says the core consumes. Enforcement of role->operation is
// the adapter's job (internal/http/middleware.RequireRole); this
// service only answers "who is this".
type AuthService interface {
	ResolveAPIKey(ctx context.Context, key string) (*ctxutil.RequestData, error)
	ResolveBearerToken(ctx context.Context, tokenString string) (*ctxutil.RequestData, error)
	IssueServiceToken(callerID, role, brandScope string, ttl time.Duration) (string, error)
}

// apiKeyEntry is one parsed "key:role[:brand]" triple from API_KEYS.
type apiKeyEntry struct {
	Role       string
	BrandScope string
}

type authService struct {
	log       *logger.Logger
	apiKeys   map[string]apiKeyEntry
	jwtSecret string
}

// NewAuthService builds the service from an already-parsed API_KEYS spec
// (see ParseAPIKeys) and the JWT signing secret (config.py's api_keys
// map, extended here with an optional brand scope segment).
func NewAuthService(baseLog *logger.Logger, apiKeys map[string]apiKeyEntry, jwtSecret string) AuthService {
	return &authService{
		log:       baseLog.With("service", "AuthService"),
		apiKeys:   apiKeys,
		jwtSecret: jwtSecret,
	}
}

// ParseAPIKeys parses config.py's `api_keys: "key:role,key:role"` format,
// extended with an optional third `:brand_scope` segment. Malformed
// entries and entries naming a role outside the closed Roles set are
// dropped with a warning rather than failing startup.
func ParseAPIKeys(spec string, baseLog *logger.Logger) map[string]apiKeyEntry {
	out := map[string]apiKeyEntry{}
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ":")
		if len(parts) < 2 {
			if baseLog != nil {
				baseLog.Warn("skipping malformed API_KEYS entry", "entry", raw)
			}
			continue
		}
		key := strings.TrimSpace(parts[0])
		role := strings.TrimSpace(parts[1])
		if key == "" || !Roles[role] {
			if baseLog != nil {
				baseLog.Warn("skipping API_KEYS entry with unknown role", "entry", raw)
			}
			continue
		}
		brand := ""
		if len(parts) >= 3 {
			brand = strings.TrimSpace(parts[2])
		}
		out[key] = apiKeyEntry{Role: role, BrandScope: brand}
	}
	return out
}

func (as *authService) ResolveAPIKey(ctx context.Context, key string) (*ctxutil.RequestData, error) {
	if key == "" {
		return nil, apierr.New(401, "unauthorized", fmt.Errorf("missing API key"))
	}
	entry, ok := as.apiKeys[key]
	if !ok {
		return nil, apierr.New(401, "unauthorized", fmt.Errorf("unrecognized API key"))
	}
	return &ctxutil.RequestData{
		CallerID:   hashedCallerID(key),
		Role:       entry.Role,
		BrandScope: entry.BrandScope,
	}, nil
}

func (as *authService) ResolveBearerToken(ctx context.Context, tokenString string) (*ctxutil.RequestData, error) {
	if tokenString == "" {
		return nil, apierr.New(401, "unauthorized", fmt.Errorf("missing bearer token"))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecret), nil
	})
	if err != nil {
		return nil, apierr.New(401, "unauthorized", fmt.Errorf("parse bearer token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return nil, apierr.New(401, "unauthorized", fmt.Errorf("invalid or expired bearer token"))
	}
	if !Roles[claims.Role] {
		return nil, apierr.New(401, "unauthorized", fmt.Errorf("bearer token names unknown role %q", claims.Role))
	}
	return &ctxutil.RequestData{
		CallerID:   claims.Subject,
		Role:       claims.Role,
		BrandScope: claims.BrandScope,
	}, nil
}

func (as *authService) IssueServiceToken(callerID, role, brandScope string, ttl time.Duration) (string, error) {
	if !Roles[role] {
		return "", fmt.Errorf("unknown role %q", role)
	}
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   callerID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role:       role,
		BrandScope: brandScope,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecret))
}

// hashedCallerID never surfaces the raw API key past the auth boundary;
// audit rows and logs only ever see this derived id.
func hashedCallerID(key string) string {
	if len(key) <= 8 {
		sum := sha256.Sum256([]byte(key))
		return "key:" + hex.EncodeToString(sum[:6])
	}
	return "key:" + key[:4] + "..." + key[len(key)-4:]
}

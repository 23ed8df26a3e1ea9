package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fieldops/internal/core/apperror"
	appctx "fieldops/internal/core/context"
)

// JWTConfig configures token signing.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Claims is the token payload.
type Claims struct {
	UserID   int64  `json:"uid"`
	Email    string `json:"email"`
	FullName string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates session tokens.
type JWTService struct {
	cfg JWTConfig
}

func NewJWTService(cfg JWTConfig) *JWTService {
	if cfg.TTL == 0 {
		cfg.TTL = 8 * time.Hour
	}
	return &JWTService{cfg: cfg}
}

// Generate signs a token for the user. Returns the token and its
// expiry.
func (s *JWTService) Generate(u *User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.TTL)

	claims := Claims{
		UserID:   u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, apperror.NewInternal(err)
	}
	return token, expiresAt, nil
}

// Validate parses a token and returns the user context it carries.
func (s *JWTService) Validate(tokenString string) (*appctx.UserContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token").WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid token claims")
	}

	return &appctx.UserContext{
		UserID:   claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     claims.Role,
	}, nil
}

package authenticating

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/traffic-assistant-api/internal/config"
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

const tokenTTL = 24 * time.Hour

// Authenticator valida tokens emitidos pelo serviço de identidade do dashboard.
// O cadastro e o login de usuários ficam fora desta API.
type Authenticator interface {
	Enabled() bool
	ValidateToken(tokenString string) (*domain.Claims, error)
	GenerateToken(claims domain.Claims) (string, error)
}

type Service struct {
	cfg config.Auth
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{
		cfg: cfg.Auth,
	}
}

func (s *Service) Enabled() bool {
	return s.cfg.Enabled
}

// GenerateToken assina claims com HS256; usado pelo seeder para tokens locais e pelos testes
func (s *Service) GenerateToken(claims domain.Claims) (string, error) {
	if s.cfg.Secret == "" {
		return "", NewAuthError(ErrMissingSecret, "AUTH_SECRET", "")
	}

	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	if s.cfg.Secret == "" {
		return nil, NewAuthError(ErrMissingSecret, "AUTH_SECRET", "")
	}

	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, NewAuthError(ErrInvalidToken, "", err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, "", "")
	}

	return claims, nil
}

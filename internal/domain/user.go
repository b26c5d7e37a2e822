package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims representa o token emitido pelo serviço de autenticação do dashboard.
// Esta API apenas valida a assinatura; usuários não são gerenciados aqui.
type Claims struct {
	UserID     int    `json:"user_id"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	UserRoleID int    `json:"user_role_id"`
	jwt.RegisteredClaims
}

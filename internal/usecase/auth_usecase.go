package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/apperror"
	"care-recruitment-backend/pkg/security"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenIssuer = "care-recruitment-backend"

// AuthConfig holds the single admin account and token settings
type AuthConfig struct {
	Username     string
	PasswordHash string // bcrypt
	JWTSecret    string // empty disables admin auth
	TokenTTL     time.Duration
}

type authUsecase struct {
	cfg   AuthConfig
	audit *security.AuditLogger
	now   func() time.Time
}

func NewAuthUsecase(cfg AuthConfig, audit *security.AuditLogger) domain.AuthUsecase {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 8 * time.Hour
	}
	if audit == nil {
		audit = security.NopAuditLogger()
	}
	return &authUsecase{cfg: cfg, audit: audit, now: time.Now}
}

func (u *authUsecase) Enabled() bool {
	return u.cfg.JWTSecret != ""
}

func (u *authUsecase) Login(ctx context.Context, req domain.AdminLoginRequest) (*domain.AdminToken, error) {
	if !u.Enabled() || u.cfg.PasswordHash == "" {
		return nil, apperror.New(http.StatusServiceUnavailable, "Admin login is not configured", nil)
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(u.cfg.Username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passErr := bcrypt.CompareHashAndPassword([]byte(u.cfg.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		u.audit.LogAdminLogin(ctx, req.Username, false, "invalid_credentials")
		return nil, apperror.Unauthorized("Invalid username or password")
	}

	now := u.now()
	expiresAt := now.Add(u.cfg.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   u.cfg.Username,
		Issuer:    adminTokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign admin token: %w", err)
	}

	u.audit.LogAdminLogin(ctx, req.Username, true, "")
	return &domain.AdminToken{Token: token, ExpiresAt: expiresAt.UTC()}, nil
}

func (u *authUsecase) VerifyToken(tokenString string) (string, error) {
	if !u.Enabled() {
		return "", errors.New("admin auth disabled")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(u.cfg.JWTSecret), nil
	},
		jwt.WithIssuer(adminTokenIssuer),
		jwt.WithTimeFunc(u.now),
	)
	if err != nil || !token.Valid || claims.ExpiresAt == nil {
		return "", apperror.Unauthorized("Invalid token")
	}
	if claims.Subject != u.cfg.Username {
		return "", apperror.Unauthorized("Invalid token")
	}
	return claims.Subject, nil
}

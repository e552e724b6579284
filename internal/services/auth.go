package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/infinitetutor-backend/internal/platform/apierr"
	"github.com/yungbote/infinitetutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/infinitetutor-backend/internal/platform/logger"
)

type AuthConfig struct {
	// JWTSecret is the HS256 signing secret of the identity provider.
	JWTSecret string
	Issuer    string
	Audience  string
	Leeway    time.Duration
}

type AuthService interface {
	// VerifyToken checks the signature, expiry and optional issuer/audience of
	// a bearer token and returns the caller identity it carries.
	VerifyToken(ctx context.Context, tokenString string) (*ctxutil.RequestData, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	log    *logger.Logger
	secret []byte
	parser *jwt.Parser
}

func NewAuthService(log *logger.Logger, cfg AuthConfig) AuthService {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	serviceLog := log.With("service", "AuthService")
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		serviceLog.Warn("auth jwt secret not configured; every authenticated request will be rejected")
	}
	return &authService{
		log:    serviceLog,
		secret: []byte(cfg.JWTSecret),
		parser: jwt.NewParser(opts...),
	}
}

func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*ctxutil.RequestData, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, apierr.Unauthorized(ErrMissingIdentity)
	}
	if len(s.secret) == 0 {
		return nil, apierr.Unauthorized(fmt.Errorf("%w: token verification unavailable", ErrMissingIdentity))
	}
	claims := &AccessClaims{}
	parsed, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "Token expired"
		}
		s.log.Debug("token rejected", "error", err)
		return nil, apierr.Unauthorized(errors.New(msg))
	}
	if !parsed.Valid {
		return nil, apierr.Unauthorized(errors.New("Invalid token"))
	}
	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return nil, apierr.Unauthorized(errors.New("Token has no email claim"))
	}
	return &ctxutil.RequestData{
		TokenString: tokenString,
		Subject:     claims.Subject,
		Email:       email,
	}, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	rd, err := s.VerifyToken(ctx, tokenString)
	if err != nil {
		return ctx, err
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

// requireEmail returns the verified caller email attached to ctx.
func requireEmail(ctx context.Context) (string, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || strings.TrimSpace(rd.Email) == "" {
		return "", apierr.Unauthorized(ErrMissingIdentity)
	}
	return rd.Email, nil
}

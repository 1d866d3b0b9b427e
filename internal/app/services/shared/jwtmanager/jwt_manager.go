package jwtmanager

import (
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/pkg/exceptions"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// JWTManager signs the service tokens attached to every Ledger Service call.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	issuer string
	ttl    time.Duration
}

// CreateTokenInput defines input parameters for token creation.
type CreateTokenInput struct {
	Subject string
}

// CreateTokenOutput contains the signed token string.
type CreateTokenOutput struct {
	Token string
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) *JWTManager {
	ttl := time.Duration(cfg.JWT.ExpTimeInHour) * time.Hour
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTManager{
		log:    log,
		secret: []byte(cfg.JWT.Secret),
		issuer: cfg.Ledger.ServiceName,
		ttl:    ttl,
	}
}

func (m *JWTManager) CreateToken(in *CreateTokenInput) (*CreateTokenOutput, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   in.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		m.log.Error("jwtManager.CreateToken error signing token", zap.Error(err))
		return nil, exceptions.ErrTokenGenerate(err)
	}
	return &CreateTokenOutput{Token: signed}, nil
}

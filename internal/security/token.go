package security

import (
	"errors"
	"strconv"
	"time"

	"vehicle-rental-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)

const (
	defaultIssuer   = "identity-service"
	accessAudience  = "reservations-api"
	defaultLifetime = time.Hour
)

// ActorClaims carries the verified caller issued by the identity service.
type ActorClaims struct {
	PartyID int64       `json:"party_id"`
	Role    domain.Role `json:"role"`
	Type    TokenType   `json:"type"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the domain caller.
func (c *ActorClaims) Actor() domain.Actor {
	return domain.Actor{PartyID: c.PartyID, Role: c.Role}
}

type TokenManager interface {
	GenerateAccessToken(partyID int64, role domain.Role) (string, error)
	ValidateToken(tokenString string) (*ActorClaims, error)
}

type tokenManager struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
}

// NewTokenManager validates HS256 tokens signed with secret. A zero lifetime means one hour.
func NewTokenManager(secret, issuer string, lifetime time.Duration) TokenManager {
	if issuer == "" {
		issuer = defaultIssuer
	}
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}
	return &tokenManager{
		secret:   []byte(secret),
		issuer:   issuer,
		lifetime: lifetime,
	}
}

func (m *tokenManager) GenerateAccessToken(partyID int64, role domain.Role) (string, error) {
	if !role.Valid() {
		return "", errors.New("unknown role: " + string(role))
	}
	now := time.Now()
	claims := ActorClaims{
		PartyID: partyID,
		Role:    role,
		Type:    TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(partyID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{accessAudience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithAudience(accessAudience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	// Populate PartyID from Subject if it was lost (though we set both)
	if claims.PartyID == 0 && claims.Subject != "" {
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return nil, ErrInvalidToken
		}
		claims.PartyID = id
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

package jwt

import (
	"errors"
	"fmt"
	"time"

	"foodgram/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ErrMissingSecret is returned at startup when no signing key is configured.
var ErrMissingSecret = errors.New("jwt secret is not configured")

type (
	JWTService interface {
		GenerateTokenUser(userID uint) (string, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (uint, error)
		// Revoke invalidates token until it would have expired anyway.
		Revoke(token string) error
	}

	jwtUserClaim struct {
		UserID uint `json:"user_id"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
		denylist  Denylist
		now       func() time.Time
	}
)

func NewJWTService(secretKey string, ttl time.Duration, denylist Denylist) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "FOODGRAM",
		ttl:       ttl,
		denylist:  denylist,
		now:       time.Now,
	}
}

func (j *jwtService) GenerateTokenUser(userID uint) (string, error) {
	now := j.now()
	claims := jwtUserClaim{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) claims(token string) (*jwtUserClaim, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*jwtUserClaim)
	if !ok || claims.UserID == 0 {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func (j *jwtService) GetUserIDByToken(token string) (uint, error) {
	claims, err := j.claims(token)
	if err != nil {
		return 0, err
	}
	if j.denylist.Contains(claims.ID) {
		return 0, domain.ErrTokenInvalid
	}
	return claims.UserID, nil
}

func (j *jwtService) Revoke(token string) error {
	claims, err := j.claims(token)
	if err != nil {
		return err
	}
	j.denylist.Add(claims.ID, claims.ExpiresAt.Time)
	return nil
}

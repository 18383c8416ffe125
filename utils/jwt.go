package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL adalah masa berlaku access token.
const DefaultTokenTTL = 24 * time.Hour

/*
 JWTCustomClaims

 Token menyimpan identitas minimum yang dibutuhkan handler untuk
 keputusan otorisasi, sehingga tidak perlu query user di setiap request:
 - UserID (uuid)  : id user
 - NIP    (string): nomor induk (login identifier)
 - Role   (string): student / teacher
*/
type JWTCustomClaims struct {
	UserID uuid.UUID `json:"id"`
	NIP    string    `json:"nip"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager menandatangani dan memverifikasi JWT. Secret di-inject saat
// startup, bukan dibaca dari environment di setiap pemanggilan.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager membuat TokenManager. ttl <= 0 berarti DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// GenerateToken membuat JWT access token yang menyimpan userID, nip, dan role.
func (m *TokenManager) GenerateToken(userID uuid.UUID, nip, role string) (string, error) {
	now := m.now()
	claims := JWTCustomClaims{
		UserID: userID,
		NIP:    nip,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)), // masa berlaku token
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken mem-validasi JWT dan mengembalikan *JWTCustomClaims jika valid.
// - Mengecek signing method (HMAC).
// - Mengecek expiration dan validitas klaim.
func (m *TokenManager) ValidateToken(tokenString string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTCustomClaims{},
		func(t *jwt.Token) (interface{}, error) {
			// verifikasi signing method HMAC
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token has no user id")
	}

	return claims, nil
}

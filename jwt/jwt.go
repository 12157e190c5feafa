package jwt

import (
	"crypto/rsa"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier 只負責驗證，token由登入服務簽發
type Verifier struct {
	publicKey *rsa.PublicKey
}

// 讀取公鑰
func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(keyBytes)
	if err != nil {
		return nil, err
	}

	return key, nil
}

func NewVerifier(publicKeyPath string) (*Verifier, error) {
	key, err := loadPublicKey(publicKeyPath)
	if err != nil {
		return nil, err
	}
	return NewVerifierFromKey(key), nil
}

func NewVerifierFromKey(key *rsa.PublicKey) *Verifier {
	return &Verifier{publicKey: key}
}

// 驗證JWT Token並回傳claims
func (v *Verifier) Verify(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}

// TimeToExpiry token剩餘有效時間，沒有exp時回傳錯誤
func TimeToExpiry(claims jwt.MapClaims, now time.Time) (time.Duration, error) {
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return 0, err
	}
	if exp == nil {
		return 0, errors.New("token has no expiration")
	}
	return exp.Sub(now), nil
}

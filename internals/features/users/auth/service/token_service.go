package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	authModel "iltizem_backend/internals/features/users/auth/model"
	userModel "iltizem_backend/internals/features/users/user/model"
)

const (
	AccessTokenTTL  = 2 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CreateAccessToken émet le JWT d'accès. Le scope d'association (pour les
// admins) est résolu au login et embarqué, pas recalculé en profondeur.
func CreateAccessToken(user userModel.UserModel, associationID *uuid.UUID) (string, error) {
	if configs.JWTSecret == "" {
		return "", errors.New("JWT_SECRET manquant")
	}

	claims := jwt.MapClaims{
		"user_id":   user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(AccessTokenTTL).Unix(),
	}
	if associationID != nil {
		claims["association_id"] = associationID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}

// hachage HMAC du refresh token: un dump de la table ne suffit pas à forger
// un token valide sans le secret
func hashRefreshToken(plain string) []byte {
	mac := hmac.New(sha256.New, []byte(configs.JWTRefreshSecret))
	mac.Write([]byte(plain))
	return mac.Sum(nil)
}

// CreateRefreshToken génère un token opaque, stocke son hash et renvoie le plaintext.
func CreateRefreshToken(db *gorm.DB, userID uuid.UUID, userAgent, ip string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	plain := hex.EncodeToString(raw)

	rt := authModel.RefreshToken{
		UserID:    userID,
		TokenHash: hashRefreshToken(plain),
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}
	if userAgent != "" {
		rt.UserAgent = &userAgent
	}
	if ip != "" {
		rt.IP = &ip
	}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return plain, nil
}

// ConsumeRefreshToken valide un refresh token et le révoque (rotation).
func ConsumeRefreshToken(db *gorm.DB, plain string) (uuid.UUID, error) {
	var rt authModel.RefreshToken
	if err := db.Where("token_hash = ? AND revoked_at IS NULL", hashRefreshToken(plain)).First(&rt).Error; err != nil {
		return uuid.Nil, errors.New("refresh token invalide")
	}
	if time.Now().After(rt.ExpiresAt) {
		return uuid.Nil, errors.New("refresh token expiré")
	}

	now := time.Now()
	if err := db.Model(&rt).Update("revoked_at", &now).Error; err != nil {
		return uuid.Nil, err
	}
	return rt.UserID, nil
}

// BlacklistToken révoque un access token jusqu'à son expiration naturelle.
func BlacklistToken(db *gorm.DB, token string, expiredAt time.Time) error {
	return db.Create(&authModel.TokenBlacklist{
		Token:     token,
		ExpiredAt: expiredAt,
	}).Error
}

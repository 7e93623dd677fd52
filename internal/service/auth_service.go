package service

import (
	"context"
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dimondice01/finalDist-sub000/internal/mapper"
	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// AuthService signs vendors in against the vendors collection. The token's
// subject is the identity uid the sync engine resolves vendors by: the
// authUid link when present, the legacy document id otherwise (which then
// exercises the self-healing fallback on first sync).
type AuthService struct {
	remote remote.Store
}

func NewAuthService(store remote.Store) *AuthService {
	return &AuthService{remote: store}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, model.Vendor, error) {
	docs, err := s.remote.Query(ctx, remote.C(model.CollVendors).Where("email", "==", req.Email))
	if err != nil {
		return nil, model.Vendor{}, err
	}
	if len(docs) == 0 {
		return nil, model.Vendor{}, errors.New("invalid email or password")
	}
	vendor := mapper.Vendor(docs[0])

	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.Vendor{}, errors.New("invalid email or password")
	}

	sub := vendor.AuthUID
	if sub == "" {
		sub = vendor.ID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"rank": vendor.Rank,
		"name": vendor.Name,
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, model.Vendor{}, errors.New("failed to sign token")
	}

	return &TokenResponse{Token: signed}, vendor, nil
}

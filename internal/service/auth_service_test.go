package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
)

func seedVendorWithPassword(t *testing.T, store *remote.MemoryStore, id string, data map[string]any, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	data["passwordHash"] = string(hash)
	if err := store.Set(context.Background(), model.CollVendors, id, data); err != nil {
		t.Fatal(err)
	}
}

func parseClaims(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte("default_super_secret_key"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	return token.Claims.(jwt.MapClaims)
}

func TestLoginIssuesTokenWithIdentityClaims(t *testing.T) {
	store := remote.NewMemoryStore()
	seedVendorWithPassword(t, store, "v1", map[string]any{
		"name": "Juan", "email": "juan@example.com", "rank": model.RankSeller, "authUid": "uid1",
	}, "secret123")
	svc := NewAuthService(store)

	res, vendor, err := svc.Login(context.Background(), LoginRequest{Email: "juan@example.com", Password: "secret123"})
	if err != nil {
		t.Fatal(err)
	}
	if vendor.ID != "v1" || vendor.Rank != model.RankSeller {
		t.Errorf("vendor = %+v", vendor)
	}

	claims := parseClaims(t, res.Token)
	if claims["sub"] != "uid1" {
		t.Errorf("sub = %v, want the auth link uid", claims["sub"])
	}
	if claims["rank"] != model.RankSeller || claims["name"] != "Juan" {
		t.Errorf("claims = %v", claims)
	}
}

func TestLoginLegacyVendorUsesDocumentID(t *testing.T) {
	// No authUid on the document: the token subject falls back to the
	// document id, which the sync self-heal path then backfills.
	store := remote.NewMemoryStore()
	seedVendorWithPassword(t, store, "legacy-id", map[string]any{
		"name": "Maria", "email": "maria@example.com", "rank": model.RankSeller,
	}, "secret123")
	svc := NewAuthService(store)

	res, _, err := svc.Login(context.Background(), LoginRequest{Email: "maria@example.com", Password: "secret123"})
	if err != nil {
		t.Fatal(err)
	}
	if claims := parseClaims(t, res.Token); claims["sub"] != "legacy-id" {
		t.Errorf("sub = %v, want the document id fallback", claims["sub"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := remote.NewMemoryStore()
	seedVendorWithPassword(t, store, "v1", map[string]any{
		"name": "Juan", "email": "juan@example.com", "rank": model.RankSeller,
	}, "secret123")
	svc := NewAuthService(store)

	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "juan@example.com", Password: "wrong"}); err == nil {
		t.Error("wrong password accepted")
	}
	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "secret123"}); err == nil {
		t.Error("unknown email accepted")
	}
}

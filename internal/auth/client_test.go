package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateServiceToken(t *testing.T) {
	client := NewClient(Config{
		ServiceName:   "cms",
		ServiceSecret: "test-secret",
	})

	token, err := client.GenerateServiceToken()
	if err != nil {
		t.Fatalf("GenerateServiceToken() error = %v", err)
	}

	claims, err := client.ValidateServiceToken(token)
	if err != nil {
		t.Fatalf("ValidateServiceToken() error = %v", err)
	}
	if claims.ServiceName != "cms" {
		t.Errorf("ServiceName = %q, want cms", claims.ServiceName)
	}
	if len(claims.Permissions) != 1 || claims.Permissions[0] != "reindex" {
		t.Errorf("Permissions = %v", claims.Permissions)
	}
}

func TestValidateServiceToken_WrongSecret(t *testing.T) {
	issuer := NewClient(Config{ServiceName: "cms", ServiceSecret: "secret-a"})
	verifier := NewClient(Config{ServiceName: "cms", ServiceSecret: "secret-b"})

	token, err := issuer.GenerateServiceToken()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ValidateServiceToken(token); err == nil {
		t.Error("token signed with a different secret must not validate")
	}
}

func TestValidateServiceToken_Expired(t *testing.T) {
	client := NewClient(Config{
		ServiceName:   "cms",
		ServiceSecret: "test-secret",
		TokenTTL:      -time.Minute,
	})

	token, err := client.GenerateServiceToken()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.ValidateServiceToken(token); err == nil {
		t.Error("expired token must not validate")
	}
}

func TestValidateServiceToken_Garbage(t *testing.T) {
	client := NewClient(Config{ServiceName: "cms", ServiceSecret: "test-secret"})
	if _, err := client.ValidateServiceToken("not.a.token"); err == nil {
		t.Error("malformed token must not validate")
	}
}

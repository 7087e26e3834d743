package credentials

import (
	"errors"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "admin.json"))
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("hash is not a bcrypt hash: %v", err)
	}
	if cost != hashCost {
		t.Errorf("cost = %d, want %d", cost, hashCost)
	}
	if !VerifyPassword("s3cret-pass", hash) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("wrong-pass", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestValidate(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.Create("ops@example.com", "hunter22", "Ops")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Role != "admin" {
		t.Errorf("Role = %q, want %q", created.Role, "admin")
	}

	admin, err := s.Validate("ops@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if admin.ID != created.ID {
		t.Errorf("Validate returned wrong admin: %s vs %s", admin.ID, created.ID)
	}

	// Unknown email and wrong password are indistinguishable.
	_, wrongPass := s.Validate("ops@example.com", "nope")
	_, unknownUser := s.Validate("ghost@example.com", "hunter22")
	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Errorf("unknown user: want ErrInvalidCredentials, got %v", unknownUser)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Create("dup@example.com", "pw-one", "One"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := s.Create("dup@example.com", "pw-two", "Two"); !errors.Is(err, ErrExists) {
		t.Fatalf("want ErrExists, got %v", err)
	}
}

func TestGetByEmailNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetByEmail("nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestInitializeDefault(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InitializeDefault("boot@example.com", "boot-pass"); err != nil {
		t.Fatalf("InitializeDefault failed: %v", err)
	}
	admin, err := s.GetByEmail("boot@example.com")
	if err != nil {
		t.Fatalf("seeded admin not found: %v", err)
	}

	// Second call is a no-op even with different credentials.
	if err := s.InitializeDefault("other@example.com", "other-pass"); err != nil {
		t.Fatalf("second InitializeDefault failed: %v", err)
	}
	if _, err := s.GetByEmail("other@example.com"); !errors.Is(err, ErrNotFound) {
		t.Error("second InitializeDefault should not create another admin")
	}

	if _, err := s.Validate(admin.Email, "boot-pass"); err != nil {
		t.Errorf("seeded admin should validate: %v", err)
	}
}

func TestInitializeDefaultFallbacks(t *testing.T) {
	s := setupTestStore(t)

	if err := s.InitializeDefault("", ""); err != nil {
		t.Fatalf("InitializeDefault with empty args failed: %v", err)
	}
	if _, err := s.GetByEmail("admin@nomadic.com"); err != nil {
		t.Errorf("fallback admin should exist: %v", err)
	}
}

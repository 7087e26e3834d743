// Package credentials stores admin accounts in a JSON array file and handles
// password hashing and verification.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt work factor for new password hashes.
const hashCost = 12

// ErrNotFound is returned when no admin matches the given email.
var ErrNotFound = errors.New("admin not found")

// ErrExists is returned when an admin with the same email already exists.
var ErrExists = errors.New("admin email already exists")

// ErrInvalidCredentials is returned by Validate for both an unknown email and
// a wrong password, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Admin is an administrator account. Not mutable once created.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store owns the admin JSON file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store backed by the JSON array file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// HashPassword hashes a plaintext password with a per-hash salt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GetByEmail returns the admin with the given email, or ErrNotFound.
func (s *Store) GetByEmail(email string) (*Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Email == email {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, email)
}

// Validate looks up the admin by email and checks the password, returning
// ErrInvalidCredentials on any mismatch.
func (s *Store) Validate(email, password string) (*Admin, error) {
	admin, err := s.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// Create adds a new admin account. Returns ErrExists for a duplicate email.
func (s *Store) Create(email, password, name string) (*Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		if a.Email == email {
			return nil, fmt.Errorf("%w: %s", ErrExists, email)
		}
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         "admin",
		CreatedAt:    time.Now().UTC(),
	}
	all = append(all, admin)
	if err := s.write(all); err != nil {
		return nil, err
	}
	return &admin, nil
}

// InitializeDefault seeds a single admin when the store is empty. A no-op
// when any admin exists. The fallbacks make first boot work without env
// configuration; they are a convenience, not a security boundary.
func (s *Store) InitializeDefault(email, password string) error {
	s.mu.Lock()
	existing, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	if email == "" {
		email = "admin@nomadic.com"
	}
	if password == "" {
		password = "ChangeMeInProduction123!"
	}
	_, err = s.Create(email, password, "Admin")
	return err
}

func (s *Store) read() ([]Admin, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var all []Admin
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return all, nil
}

func (s *Store) write(all []Admin) error {
	if all == nil {
		all = []Admin{}
	}
	raw, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".admin-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

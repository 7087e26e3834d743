// Package leads stores captured leads as a single pretty-printed JSON array
// file. Every operation is a whole-file read-modify-write; a mutex serializes
// callers within this process, but concurrent processes writing the same file
// race at file granularity (last write wins).
package leads

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
)

// ErrNotFound is returned when no lead matches the given id.
var ErrNotFound = errors.New("lead not found")

// ErrExists is returned when a lead with the same email already exists.
var ErrExists = errors.New("email already exists")

// Status tracks where a lead sits in the follow-up pipeline.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
)

// Lead is a prospective contact captured through the public form.
type Lead struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput carries the caller-supplied lead fields. Email and Name are
// required; the API layer validates formats before calling the store.
type CreateInput struct {
	Email   string
	Name    string
	Phone   string
	Company string
	Message string
	Source  string
}

// UpdateInput holds optional replacements; nil fields keep their current
// value. ID and CreatedAt are never updatable.
type UpdateInput struct {
	Email   *string
	Name    *string
	Phone   *string
	Company *string
	Message *string
	Status  *Status
}

// Stats aggregates lead counts by status for the admin dashboard.
type Stats struct {
	Total     int `json:"totalLeads"`
	New       int `json:"newLeads"`
	Contacted int `json:"contactedLeads"`
	Converted int `json:"convertedLeads"`
}

// Store owns the leads JSON file. No other writer may touch it.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store backed by the JSON array file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Create appends a new lead with a fresh id, "new" status, and matching
// created/updated timestamps. The duplicate-email check is a case-sensitive
// exact match, as in the capture form it serves.
func (s *Store) Create(input CreateInput) (*Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, l := range all {
		if l.Email == input.Email {
			return nil, fmt.Errorf("%w: %s", ErrExists, input.Email)
		}
	}
	now := time.Now().UTC()
	lead := Lead{
		ID:        uuid.NewString(),
		Email:     input.Email,
		Name:      input.Name,
		Phone:     input.Phone,
		Company:   input.Company,
		Message:   input.Message,
		Source:    input.Source,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	all = append(all, lead)
	if err := s.write(all); err != nil {
		return nil, err
	}
	return &lead, nil
}

// ListAll returns every lead in stored order. Filtering and sorting are the
// caller's concern.
func (s *Store) ListAll() ([]Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// GetByID returns the lead with the given id, or ErrNotFound.
func (s *Store) GetByID(id string) (*Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Update merges the provided fields into the lead and refreshes UpdatedAt.
// CreatedAt is left untouched.
func (s *Store) Update(id string, input UpdateInput) (*Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if input.Email != nil {
			all[i].Email = *input.Email
		}
		if input.Name != nil {
			all[i].Name = *input.Name
		}
		if input.Phone != nil {
			all[i].Phone = *input.Phone
		}
		if input.Company != nil {
			all[i].Company = *input.Company
		}
		if input.Message != nil {
			all[i].Message = *input.Message
		}
		if input.Status != nil {
			all[i].Status = *input.Status
		}
		all[i].UpdatedAt = time.Now().UTC()
		if err := s.write(all); err != nil {
			return nil, err
		}
		return &all[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes the lead and reports whether anything was removed.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return false, err
	}
	kept := all[:0]
	for _, l := range all {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(all) {
		return false, nil
	}
	if err := s.write(kept); err != nil {
		return false, err
	}
	return true, nil
}

// CountByStatus tallies leads per status for the stats endpoint.
func (s *Store) CountByStatus() (Stats, error) {
	all, err := s.ListAll()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Total: len(all)}
	for _, l := range all {
		switch l.Status {
		case StatusNew:
			stats.New++
		case StatusContacted:
			stats.Contacted++
		case StatusConverted:
			stats.Converted++
		}
	}
	return stats, nil
}

func (s *Store) read() ([]Lead, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var all []Lead
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return all, nil
}

func (s *Store) write(all []Lead) error {
	if all == nil {
		all = []Lead{}
	}
	raw, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	// Temp file + rename keeps readers from ever seeing a torn write.
	tmp, err := os.CreateTemp(dir, ".leads-*")
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

package leads

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "leads.json"))
}

func TestCreateAndGetByID(t *testing.T) {
	s := setupTestStore(t)

	lead, err := s.Create(CreateInput{
		Email:   "jane@example.com",
		Name:    "Jane Doe",
		Phone:   "+1 (555) 010-0100",
		Company: "Acme",
		Message: "Interested in the club",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if lead.ID == "" {
		t.Error("ID should be assigned")
	}
	if lead.Status != StatusNew {
		t.Errorf("Status = %q, want %q", lead.Status, StatusNew)
	}
	if !lead.CreatedAt.Equal(lead.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should match on create")
	}

	got, err := s.GetByID(lead.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Email != "jane@example.com" || got.Name != "Jane Doe" || got.Phone != "+1 (555) 010-0100" ||
		got.Company != "Acme" || got.Message != "Interested in the club" {
		t.Errorf("GetByID returned %+v, want the created fields", got)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Create(CreateInput{Email: "dup@example.com", Name: "First"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := s.Create(CreateInput{Email: "dup@example.com", Name: "Second"})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("want ErrExists, got %v", err)
	}

	all, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("lead count = %d, want 1 after failed duplicate create", len(all))
	}
}

func TestEmailMatchIsCaseSensitive(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Create(CreateInput{Email: "case@example.com", Name: "Lower"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Exact-match uniqueness: a differently-cased version passes.
	if _, err := s.Create(CreateInput{Email: "Case@example.com", Name: "Upper"}); err != nil {
		t.Fatalf("differently-cased email should not collide: %v", err)
	}
}

func TestUpdateRefreshesTimestamp(t *testing.T) {
	s := setupTestStore(t)

	lead, err := s.Create(CreateInput{Email: "up@example.com", Name: "Updater"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	status := StatusContacted
	updated, err := s.Update(lead.ID, UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != StatusContacted {
		t.Errorf("Status = %q, want %q", updated.Status, StatusContacted)
	}
	if !updated.UpdatedAt.After(lead.UpdatedAt) {
		t.Errorf("UpdatedAt should be strictly later: was %v, now %v", lead.UpdatedAt, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(lead.CreatedAt) {
		t.Errorf("CreatedAt changed: was %v, now %v", lead.CreatedAt, updated.CreatedAt)
	}

	got, err := s.GetByID(lead.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != StatusContacted {
		t.Errorf("persisted Status = %q, want %q", got.Status, StatusContacted)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := setupTestStore(t)
	name := "x"
	if _, err := s.Update("missing-id", UpdateInput{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteTwice(t *testing.T) {
	s := setupTestStore(t)

	lead, err := s.Create(CreateInput{Email: "gone@example.com", Name: "Goner"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	removed, err := s.Delete(lead.ID)
	if err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if !removed {
		t.Error("first Delete should report a removal")
	}

	removed, err = s.Delete(lead.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if removed {
		t.Error("second Delete should report nothing removed")
	}
}

func TestListAllEmptyFile(t *testing.T) {
	s := setupTestStore(t)
	all, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll on missing file: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("leads = %v, want empty", all)
	}
}

func TestCountByStatus(t *testing.T) {
	s := setupTestStore(t)

	emails := []string{"a@x.com", "b@x.com", "c@x.com"}
	var ids []string
	for _, e := range emails {
		lead, err := s.Create(CreateInput{Email: e, Name: "Lead"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, lead.ID)
	}
	contacted := StatusContacted
	if _, err := s.Update(ids[0], UpdateInput{Status: &contacted}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	converted := StatusConverted
	if _, err := s.Update(ids[1], UpdateInput{Status: &converted}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stats, err := s.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if stats.Total != 3 || stats.New != 1 || stats.Contacted != 1 || stats.Converted != 1 {
		t.Errorf("stats = %+v, want total 3, one of each status", stats)
	}
}

func TestFileIsPrettyPrintedArray(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.Create(CreateInput{Email: "file@example.com", Name: "File"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("read leads file: %v", err)
	}
	text := string(raw)
	if !strings.HasPrefix(text, "[\n") || !strings.Contains(text, "\n  {") {
		t.Errorf("leads file should be a pretty-printed JSON array, got:\n%s", text)
	}
}

// Package content stores blog posts as MDX files on disk, one file per post.
// The slug doubles as the filename stem, so a post maps 1:1 to a file.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const postExt = ".mdx"

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("post not found")

// ErrExists is returned when creating a post whose slug already maps to a file.
var ErrExists = errors.New("post already exists")

// Frontmatter is the metadata block at the top of each post file.
type Frontmatter struct {
	Title       string `yaml:"title" json:"title"`
	Date        string `yaml:"date" json:"date"` // YYYY-MM-DD, validated by the API layer
	Description string `yaml:"description" json:"description"`
}

// BlogPost is a parsed post file: front matter plus the free-form body.
type BlogPost struct {
	Slug        string      `json:"slug"`
	Frontmatter Frontmatter `json:"frontmatter"`
	Content     string      `json:"content"`
}

// CreateInput holds the fields needed to create a post. All are required.
type CreateInput struct {
	Title       string
	Date        string
	Description string
	Content     string
}

// UpdateInput holds optional replacements; nil fields keep their current value.
type UpdateInput struct {
	Title       *string
	Date        *string
	Description *string
	Content     *string
}

// Store reads and writes post files under a single directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The directory is created lazily on
// the first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

var (
	nonWordChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphens      = regexp.MustCompile(`-+`)
)

// TitleToSlug converts a title to a filesystem-safe slug:
// "My Trip: Part 2!" -> "my_trip_part_2". The transform is deterministic, so
// reusing a title always collides with the existing file.
func TitleToSlug(title string) string {
	s := strings.TrimSpace(title)
	s = nonWordChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "_")
	s = hyphens.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}

// ListSlugs returns the post filenames in the store directory. A missing
// directory yields an empty list, not an error.
func (s *Store) ListSlugs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".mdx") || strings.HasSuffix(name, ".md") {
			slugs = append(slugs, name)
		}
	}
	return slugs, nil
}

// GetBySlug reads a single post. The slug may carry a .md/.mdx extension,
// which is stripped before lookup. Returns ErrNotFound if the file is absent.
func (s *Store) GetBySlug(slug string) (*BlogPost, error) {
	realSlug := trimPostExt(slug)
	raw, err := os.ReadFile(s.postPath(realSlug))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, realSlug)
		}
		return nil, err
	}
	fm, body, err := splitFrontMatter(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", realSlug, err)
	}
	return &BlogPost{Slug: realSlug, Frontmatter: fm, Content: body}, nil
}

// ListAll returns every post sorted by front-matter date descending.
// ISO dates compare correctly as strings; the sort is stable so equal dates
// keep directory order across runs.
func (s *Store) ListAll() ([]*BlogPost, error) {
	slugs, err := s.ListSlugs()
	if err != nil {
		return nil, err
	}
	var posts []*BlogPost
	for _, slug := range slugs {
		post, err := s.GetBySlug(slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// File removed between listing and read.
				continue
			}
			return nil, err
		}
		posts = append(posts, post)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Frontmatter.Date > posts[j].Frontmatter.Date
	})
	return posts, nil
}

// Create derives the slug from the title and writes a new post file.
// Returns ErrExists if the derived slug already maps to a file; slug
// collisions are a hard failure, never auto-suffixed.
func (s *Store) Create(input CreateInput) (string, *BlogPost, error) {
	slug := TitleToSlug(input.Title)
	path := s.postPath(slug)
	if fileExists(path) {
		return "", nil, fmt.Errorf("%w: %s", ErrExists, slug)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", nil, err
	}
	fm := Frontmatter{Title: input.Title, Date: input.Date, Description: input.Description}
	if err := writeAtomic(path, composePost(fm, input.Content)); err != nil {
		return "", nil, err
	}
	post, err := s.GetBySlug(slug)
	if err != nil {
		return "", nil, err
	}
	return slug, post, nil
}

// Update merges the provided fields over the existing post and rewrites the
// whole file. The slug never changes, even when the title does: renames would
// break published URLs.
func (s *Store) Update(slug string, input UpdateInput) (*BlogPost, error) {
	existing, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	fm := existing.Frontmatter
	if input.Title != nil {
		fm.Title = *input.Title
	}
	if input.Date != nil {
		fm.Date = *input.Date
	}
	if input.Description != nil {
		fm.Description = *input.Description
	}
	body := existing.Content
	if input.Content != nil {
		body = *input.Content
	}
	if err := writeAtomic(s.postPath(existing.Slug), composePost(fm, body)); err != nil {
		return nil, err
	}
	return s.GetBySlug(existing.Slug)
}

// Delete removes the post file. Returns ErrNotFound if it is already gone.
func (s *Store) Delete(slug string) error {
	path := s.postPath(trimPostExt(slug))
	if !fileExists(path) {
		return fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return os.Remove(path)
}

// Exists reports whether a post file exists for the slug.
func (s *Store) Exists(slug string) bool {
	return fileExists(s.postPath(trimPostExt(slug)))
}

func (s *Store) postPath(slug string) string {
	return filepath.Join(s.dir, slug+postExt)
}

func trimPostExt(slug string) string {
	slug = strings.TrimSuffix(slug, ".mdx")
	return strings.TrimSuffix(slug, ".md")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

const fmDelim = "---"

// composePost renders front matter and body into the on-disk file format:
// a quoted-string metadata block, a blank line, then the body verbatim.
func composePost(fm Frontmatter, body string) string {
	var b strings.Builder
	b.WriteString(fmDelim + "\n")
	fmt.Fprintf(&b, "title: %q\n", fm.Title)
	fmt.Fprintf(&b, "date: %q\n", fm.Date)
	fmt.Fprintf(&b, "description: %q\n", fm.Description)
	b.WriteString(fmDelim + "\n\n")
	b.WriteString(body)
	return b.String()
}

// splitFrontMatter separates the metadata block from the body. Files without
// a leading delimiter parse as all-body with empty front matter.
func splitFrontMatter(raw string) (Frontmatter, string, error) {
	var fm Frontmatter
	if !strings.HasPrefix(raw, fmDelim+"\n") {
		return fm, raw, nil
	}
	rest := raw[len(fmDelim)+1:]
	end := strings.Index(rest, "\n"+fmDelim)
	if end == -1 {
		return fm, raw, nil
	}
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &fm); err != nil {
		return fm, "", err
	}
	body := rest[end+1+len(fmDelim):]
	// Drop the delimiter's own line ending and the blank separator line.
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")
	return fm, body, nil
}

// writeAtomic writes via a temp file in the same directory plus rename, so a
// crash mid-write never leaves a torn post behind.
func writeAtomic(path, data string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(data); err != nil {
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
	return os.Rename(tmp.Name(), path)
}

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/career-assistant/internal/validation"
)

// Store persists profiles keyed by name.
// Load returns (nil, nil) when the profile does not exist.
type Store interface {
	Load(ctx context.Context, name string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, name string) (bool, error)
}

// ErrNameCollision is returned when two profile names map to the same file.
var ErrNameCollision = errors.New("profile name collides with an existing profile")

// FileStore keeps one indented JSON document per profile in a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
	log logrus.FieldLogger
	now func() time.Time
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, log logrus.FieldLogger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	return &FileStore{dir: dir, log: log, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Dir returns the store's directory.
func (s *FileStore) Dir() string { return s.dir }

// slugger strips the combining diacritics used by Latin, Greek and Cyrillic and leaves other scripts' marks alone.
var slugger = transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
	return r >= 0x300 && r <= 0x36f
})), norm.NFC)

// Slug turns a profile name into a file name stem. Accents on Latin letters are folded,
// letters and digits of any script are kept, and anything else becomes '_'.
func Slug(name string) string {
	folded, _, err := transform.String(slugger, strings.TrimSpace(name))
	if err != nil {
		folded = name
	}
	var sb strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsDigit(r), r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}

func (s *FileStore) path(name string) (string, error) {
	slug := Slug(name)
	if slug == "" {
		return "", validation.New("name", "must contain at least one letter or digit")
	}
	return filepath.Join(s.dir, slug+".json"), nil
}

// Load reads the named profile. A file whose stored name differs from name
// (a slug collision) is treated as absent.
func (s *FileStore) Load(_ context.Context, name string) (*Profile, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	p, err := readProfile(path)
	if err != nil || p == nil {
		return nil, err
	}
	if p.Name != strings.TrimSpace(name) {
		return nil, nil
	}
	return p, nil
}

// Save writes p, stamping UpdatedAt and, on first save, CreatedAt.
func (s *FileStore) Save(_ context.Context, p *Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := validation.Required("name", p.Name); err != nil {
		return err
	}
	path, err := s.path(p.Name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := readProfile(path)
	if err != nil {
		return err
	}
	if existing != nil && existing.Name != p.Name {
		return fmt.Errorf("%w: %q and %q", ErrNameCollision, p.Name, existing.Name)
	}

	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".profile-*")
	if err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// List returns every profile, most recently updated first. Unreadable files are skipped.
func (s *FileStore) List(_ context.Context) ([]Summary, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(matches))
	for _, path := range matches {
		p, err := readProfile(path)
		if err != nil || p == nil {
			s.log.WithError(err).WithField("path", path).Warn("skipping unreadable profile")
			continue
		}
		out = append(out, p.Summary())
	}
	SortSummaries(out)
	return out, nil
}

// Delete removes the named profile and reports whether it existed.
func (s *FileStore) Delete(ctx context.Context, name string) (bool, error) {
	p, err := s.Load(ctx, name)
	if err != nil || p == nil {
		return false, err
	}
	path, _ := s.path(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SortSummaries orders summaries by UpdatedAt, newest first, then by name.
func SortSummaries(list []Summary) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return list[i].Name < list[j].Name
	})
}

func readProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return &p, nil
}

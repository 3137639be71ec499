package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mxvoice/internal/kvstore"
	"mxvoice/internal/logging"
)

// DefaultProfile is the profile used when none has been selected.
const DefaultProfile = "default"

// activeProfileKey is the global-store key holding the active profile name.
const activeProfileKey = "active_profile"

// Document is a profile's preference document: setting key to value.
type Document map[string]any

// Manager resolves the active profile and loads/saves preference documents.
type Manager struct {
	dir    string
	store  *kvstore.Store
	logger *slog.Logger
}

// NewManager creates a profile manager persisting documents under dir.
func NewManager(dir string, store *kvstore.Store, logger *slog.Logger) (*Manager, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("profiles directory is required")
	}
	if store == nil {
		return nil, errors.New("profile manager requires the global store")
	}
	return &Manager{
		dir:    dir,
		store:  store,
		logger: logging.NewComponentLogger(logger, "profiles"),
	}, nil
}

// Active returns the currently active profile name, falling back to the
// default profile when none is stored or the stored value is unusable.
func (m *Manager) Active(ctx context.Context) string {
	value, ok, err := m.store.Get(ctx, activeProfileKey)
	if err != nil {
		m.logger.Error("failed to read active profile",
			logging.Error(err),
			logging.String(logging.FieldEventType, "profile_active_read_failed"),
			logging.String(logging.FieldErrorHint, "check the settings database"))
		return DefaultProfile
	}
	if !ok {
		return DefaultProfile
	}
	name, isString := value.(string)
	if !isString || strings.TrimSpace(name) == "" {
		return DefaultProfile
	}
	return name
}

// SetActive changes the active profile and reports success.
func (m *Manager) SetActive(ctx context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	if err := m.store.Set(ctx, activeProfileKey, name); err != nil {
		return false, fmt.Errorf("persist active profile: %w", err)
	}
	m.logger.Info("active profile changed", logging.String(logging.FieldProfile, name))
	return true, nil
}

// LoadPreferences reads the preference document for the named profile.
// A missing document is returned as an empty Document, not an error.
func (m *Manager) LoadPreferences(name string) (Document, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(m.documentPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("read preferences for %q: %w", name, err)
	}
	if len(data) == 0 {
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse preferences for %q: %w", name, err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// SavePreferences writes the whole preference document for the named profile
// atomically, creating the profiles directory and document as needed.
func (m *Manager) SavePreferences(name string, doc Document) error {
	if err := validateName(name); err != nil {
		return err
	}
	if doc == nil {
		doc = Document{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences for %q: %w", name, err)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create profiles directory: %w", err)
	}

	path := m.documentPath(name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp preferences: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp preferences: %w", err)
	}
	return nil
}

// List returns known profile names: every document on disk plus the default
// profile, sorted ascending.
func (m *Manager) List() ([]string, error) {
	names := map[string]struct{}{DefaultProfile: {}}

	entries, err := os.ReadDir(m.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		names[strings.TrimSuffix(name, ".json")] = struct{}{}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Manager) documentPath(name string) string {
	return filepath.Join(m.dir, name+".json")
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("profile name cannot be empty")
	}
	if trimmed != name {
		return fmt.Errorf("profile name %q has surrounding whitespace", name)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("profile name %q contains path elements", name)
	}
	return nil
}

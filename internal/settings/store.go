package settings

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"mxvoice/internal/kvstore"
	"mxvoice/internal/logging"
	"mxvoice/internal/profiles"
)

// Store routes setting operations to the shared global store or to the
// active profile's preference document. Profile documents are reloaded on
// every call rather than cached, so a profile switch takes effect
// immediately. Read-modify-write cycles on a profile document are serialized
// per profile to prevent lost updates between concurrent writers.
type Store struct {
	global   *kvstore.Store
	profiles *profiles.Manager
	logger   *slog.Logger

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	warned map[string]struct{}
}

// NewStore builds a settings store over the given collaborators.
func NewStore(global *kvstore.Store, profileMgr *profiles.Manager, logger *slog.Logger) (*Store, error) {
	if global == nil {
		return nil, errors.New("settings store requires the global store")
	}
	if profileMgr == nil {
		return nil, errors.New("settings store requires a profile manager")
	}
	return &Store{
		global:   global,
		profiles: profileMgr,
		logger:   logging.NewComponentLogger(logger, "settings"),
		locks:    make(map[string]*sync.Mutex),
		warned:   make(map[string]struct{}),
	}, nil
}

// ActiveProfile returns the profile current operations resolve against.
func (s *Store) ActiveProfile(ctx context.Context) string {
	return s.profiles.Active(ctx)
}

// Get resolves a setting value. Global keys read the shared store raw, with
// no default substitution. Profile keys reload the active profile's document
// and fall back to the static default, or nil when none is defined.
// Unclassified keys read the shared store. Internal failures degrade to a
// direct shared-store read.
func (s *Store) Get(ctx context.Context, key string) any {
	switch Classify(key) {
	case ScopeProfile:
		profile := s.profiles.Active(ctx)
		doc, err := s.profiles.LoadPreferences(profile)
		if err != nil {
			s.logStorageFailure("get", key, profile, err)
			return s.globalGet(ctx, key)
		}
		if value, ok := doc[key]; ok {
			return value
		}
		if value, ok := DefaultFor(key); ok {
			return value
		}
		return nil
	case ScopeGlobal:
		return s.globalGet(ctx, key)
	default:
		s.warnUnclassified(key)
		return s.globalGet(ctx, key)
	}
}

// Set stores a setting value and reports success. Profile keys reload the
// active profile's document, mutate the single key, and persist the whole
// document back; failures fall back to a shared-store write.
func (s *Store) Set(ctx context.Context, key string, value any) bool {
	switch Classify(key) {
	case ScopeProfile:
		profile := s.profiles.Active(ctx)
		unlock := s.lockProfile(profile)
		defer unlock()

		doc, err := s.profiles.LoadPreferences(profile)
		if err != nil {
			s.logStorageFailure("set", key, profile, err)
			return s.globalSet(ctx, key, value)
		}
		doc[key] = value
		if err := s.profiles.SavePreferences(profile, doc); err != nil {
			s.logStorageFailure("set", key, profile, err)
			return s.globalSet(ctx, key, value)
		}
		return true
	case ScopeGlobal:
		return s.globalSet(ctx, key, value)
	default:
		s.warnUnclassified(key)
		return s.globalSet(ctx, key, value)
	}
}

// Has reports whether a setting has an explicitly stored value. Static
// defaults do not count as presence.
func (s *Store) Has(ctx context.Context, key string) bool {
	switch Classify(key) {
	case ScopeProfile:
		profile := s.profiles.Active(ctx)
		doc, err := s.profiles.LoadPreferences(profile)
		if err != nil {
			s.logStorageFailure("has", key, profile, err)
			return s.globalHas(ctx, key)
		}
		_, ok := doc[key]
		return ok
	case ScopeGlobal:
		return s.globalHas(ctx, key)
	default:
		s.warnUnclassified(key)
		return s.globalHas(ctx, key)
	}
}

// Delete removes a setting and reports success. Deleting a key that never
// existed is a successful no-op.
func (s *Store) Delete(ctx context.Context, key string) bool {
	switch Classify(key) {
	case ScopeProfile:
		profile := s.profiles.Active(ctx)
		unlock := s.lockProfile(profile)
		defer unlock()

		doc, err := s.profiles.LoadPreferences(profile)
		if err != nil {
			s.logStorageFailure("delete", key, profile, err)
			return s.globalDelete(ctx, key)
		}
		if _, ok := doc[key]; !ok {
			return true
		}
		delete(doc, key)
		if err := s.profiles.SavePreferences(profile, doc); err != nil {
			s.logStorageFailure("delete", key, profile, err)
			return false
		}
		return true
	case ScopeGlobal:
		return s.globalDelete(ctx, key)
	default:
		s.warnUnclassified(key)
		return s.globalDelete(ctx, key)
	}
}

// ProfilePreferences returns the entire preference document for the active
// profile. Failures are logged and yield an empty document.
func (s *Store) ProfilePreferences(ctx context.Context) profiles.Document {
	profile := s.profiles.Active(ctx)
	doc, err := s.profiles.LoadPreferences(profile)
	if err != nil {
		s.logStorageFailure("bulk_get", "", profile, err)
		return profiles.Document{}
	}
	return doc
}

// SaveProfilePreferences replaces the entire preference document for the
// active profile and reports success.
func (s *Store) SaveProfilePreferences(ctx context.Context, doc profiles.Document) bool {
	profile := s.profiles.Active(ctx)
	unlock := s.lockProfile(profile)
	defer unlock()

	if err := s.profiles.SavePreferences(profile, doc); err != nil {
		s.logStorageFailure("bulk_set", "", profile, err)
		return false
	}
	return true
}

// SwitchProfile changes which profile is active and reports success. No
// caches need invalidation: documents are reloaded on every call.
func (s *Store) SwitchProfile(ctx context.Context, name string) bool {
	ok, err := s.profiles.SetActive(ctx, name)
	if err != nil {
		s.logger.Error("profile switch failed",
			logging.Error(err),
			logging.String(logging.FieldProfile, name),
			logging.String(logging.FieldEventType, "profile_switch_failed"),
			logging.String(logging.FieldErrorHint, "verify the profile name and settings database"))
		return false
	}
	return ok
}

// Profiles lists every known profile, including the implicit default.
func (s *Store) Profiles() ([]string, error) {
	return s.profiles.List()
}

// PreferencesFor loads a named profile's document without switching to it.
func (s *Store) PreferencesFor(name string) (profiles.Document, error) {
	return s.profiles.LoadPreferences(name)
}

func (s *Store) globalGet(ctx context.Context, key string) any {
	value, _, err := s.global.Get(ctx, key)
	if err != nil {
		s.logStorageFailure("get", key, "", err)
		return nil
	}
	return value
}

func (s *Store) globalSet(ctx context.Context, key string, value any) bool {
	if err := s.global.Set(ctx, key, value); err != nil {
		s.logStorageFailure("set", key, "", err)
		return false
	}
	return true
}

func (s *Store) globalHas(ctx context.Context, key string) bool {
	ok, err := s.global.Has(ctx, key)
	if err != nil {
		s.logStorageFailure("has", key, "", err)
		return false
	}
	return ok
}

func (s *Store) globalDelete(ctx context.Context, key string) bool {
	if err := s.global.Delete(ctx, key); err != nil {
		s.logStorageFailure("delete", key, "", err)
		return false
	}
	return true
}

// lockProfile serializes load-mutate-persist cycles for one profile.
func (s *Store) lockProfile(profile string) func() {
	s.mu.Lock()
	lock, ok := s.locks[profile]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[profile] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *Store) warnUnclassified(key string) {
	s.mu.Lock()
	_, seen := s.warned[key]
	if !seen {
		s.warned[key] = struct{}{}
	}
	s.mu.Unlock()
	if seen {
		return
	}
	s.logger.Warn("unclassified setting key routed to global store",
		logging.String(logging.FieldSettingKey, key),
		logging.String(logging.FieldEventType, "setting_unclassified"),
		logging.String(logging.FieldErrorHint, "add the key to the global or profile table"),
		logging.String(logging.FieldImpact, "value is shared across profiles"))
}

func (s *Store) logStorageFailure(op, key, profile string, err error) {
	attrs := []logging.Attr{
		logging.Error(err),
		logging.String("op", op),
		logging.String(logging.FieldEventType, "settings_storage_failure"),
		logging.String(logging.FieldErrorHint, "check data directory permissions"),
	}
	if key != "" {
		attrs = append(attrs, logging.String(logging.FieldSettingKey, key))
	}
	if profile != "" {
		attrs = append(attrs, logging.String(logging.FieldProfile, profile))
	}
	s.logger.Error("settings storage failure", logging.Args(attrs...)...)
}

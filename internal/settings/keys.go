package settings

import "sort"

// Scope is the build-time classification of a setting key.
type Scope int

const (
	// ScopeGlobal marks settings shared across all profiles on one install.
	ScopeGlobal Scope = iota
	// ScopeProfile marks settings scoped to the active user profile.
	ScopeProfile
	// ScopeUnclassified marks keys in neither table; they route to the
	// global store.
	ScopeUnclassified
)

// String returns the scope name used in logs and CLI output.
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeProfile:
		return "profile"
	default:
		return "unclassified"
	}
}

// globalKeys lists settings that apply to the whole installation.
var globalKeys = map[string]struct{}{
	"database_directory":  {},
	"music_directory":     {},
	"hotkey_directory":    {},
	"first_run_completed": {},
	"migration_version":   {},
	"auto_update_enabled": {},
	"update_channel":      {},
}

// profileKeys lists settings scoped to the active profile.
var profileKeys = map[string]struct{}{
	"browser_width":     {},
	"browser_height":    {},
	"fade_out_seconds":  {},
	"screen_mode":       {},
	"holding_tank_mode": {},
	"font_size":         {},
	"wave_form_visible": {},
	"window_state":      {},
	"column_order":      {},
}

// defaults holds the statically defined fallback values for profile-specific
// keys that were never written. Keys absent here resolve to nil.
var defaults = map[string]any{
	"browser_width":     1280,
	"browser_height":    1024,
	"fade_out_seconds":  2,
	"screen_mode":       "auto",
	"holding_tank_mode": "storage",
	"font_size":         11,
	"wave_form_visible": false,
}

// Classify returns the build-time scope of a setting key.
func Classify(key string) Scope {
	if _, ok := globalKeys[key]; ok {
		return ScopeGlobal
	}
	if _, ok := profileKeys[key]; ok {
		return ScopeProfile
	}
	return ScopeUnclassified
}

// DefaultFor returns the static default for a key and whether one is defined.
func DefaultFor(key string) (any, bool) {
	value, ok := defaults[key]
	return value, ok
}

// GlobalKeys returns the global key table sorted ascending.
func GlobalKeys() []string {
	return sortedKeys(globalKeys)
}

// ProfileKeys returns the profile-specific key table sorted ascending.
func ProfileKeys() []string {
	return sortedKeys(profileKeys)
}

func sortedKeys(table map[string]struct{}) []string {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

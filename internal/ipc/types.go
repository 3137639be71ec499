package ipc

import "time"

// StatusRequest asks for the daemon runtime snapshot.
type StatusRequest struct{}

// StatusResponse mirrors daemon.Status over the wire.
type StatusResponse struct {
	Running       bool     `json:"running"`
	Version       string   `json:"version"`
	ActiveProfile string   `json:"active_profile"`
	Profiles      []string `json:"profiles"`
	LibraryCount  int64    `json:"library_count"`
	DatabasePath  string   `json:"database_path"`
	LockPath      string   `json:"lock_path"`
	SocketPath    string   `json:"socket_path"`
	DeviceMonitor bool     `json:"device_monitor"`
	UpdateChecker bool     `json:"update_checker"`
	PID           int      `json:"pid"`
}

// StopRequest asks the daemon process to shut down.
type StopRequest struct{}

// StopResponse acknowledges a stop request.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// SettingGetRequest resolves one setting against the active profile.
type SettingGetRequest struct {
	Key string `json:"key"`
}

// SettingGetResponse carries the resolved value. Stored reports whether the
// key is explicitly persisted in its scope's store; a non-nil Value with
// Stored false is a static default.
type SettingGetResponse struct {
	Key     string `json:"key"`
	Value   any    `json:"value"`
	Stored  bool   `json:"stored"`
	Scope   string `json:"scope"`
	Profile string `json:"profile"`
}

// SettingSetRequest persists one setting.
type SettingSetRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SettingSetResponse reports persistence success.
type SettingSetResponse struct {
	OK bool `json:"ok"`
}

// SettingHasRequest checks for an explicitly persisted value.
type SettingHasRequest struct {
	Key string `json:"key"`
}

// SettingHasResponse reports presence. Static defaults do not count.
type SettingHasResponse struct {
	Present bool `json:"present"`
}

// SettingDeleteRequest removes one setting.
type SettingDeleteRequest struct {
	Key string `json:"key"`
}

// SettingDeleteResponse reports deletion success. Deleting an absent key
// succeeds.
type SettingDeleteResponse struct {
	OK bool `json:"ok"`
}

// SettingListRequest lists known setting keys.
type SettingListRequest struct{}

// SettingListResponse carries the sorted key listing.
type SettingListResponse struct {
	Keys []string `json:"keys"`
}

// ProfileListRequest lists profiles.
type ProfileListRequest struct{}

// ProfileListResponse names every profile and the active one.
type ProfileListResponse struct {
	Profiles []string `json:"profiles"`
	Active   string   `json:"active"`
}

// ProfileShowRequest fetches one profile's preference document. An empty
// name selects the active profile.
type ProfileShowRequest struct {
	Name string `json:"name"`
}

// ProfileShowResponse carries the preference document.
type ProfileShowResponse struct {
	Name        string         `json:"name"`
	Preferences map[string]any `json:"preferences"`
}

// ProfileSwitchRequest changes the active profile.
type ProfileSwitchRequest struct {
	Name string `json:"name"`
}

// ProfileSwitchResponse reports switch success.
type ProfileSwitchResponse struct {
	OK     bool   `json:"ok"`
	Active string `json:"active"`
}

// EmitEventRequest injects an event into the bridge channel.
type EmitEventRequest struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// EmitEventResponse returns the assigned event identifier.
type EmitEventResponse struct {
	EventID string `json:"event_id"`
}

// Song is the wire representation of a library entry.
type Song struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Category string    `json:"category"`
	Filename string    `json:"filename"`
	Duration int       `json:"duration"`
	AddedAt  time.Time `json:"added_at"`
}

// LibraryAddRequest inserts a song.
type LibraryAddRequest struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Category string `json:"category"`
	Filename string `json:"filename"`
	Duration int    `json:"duration"`
}

// LibraryAddResponse returns the stored song.
type LibraryAddResponse struct {
	Song Song `json:"song"`
}

// LibraryListRequest lists every song.
type LibraryListRequest struct{}

// LibraryListResponse carries the listing.
type LibraryListResponse struct {
	Songs []Song `json:"songs"`
}

// LibrarySearchRequest runs a case-folded search.
type LibrarySearchRequest struct {
	Query string `json:"query"`
}

// LibrarySearchResponse carries the matches.
type LibrarySearchResponse struct {
	Songs []Song `json:"songs"`
}

// LibraryRemoveRequest deletes one song by id.
type LibraryRemoveRequest struct {
	ID int64 `json:"id"`
}

// LibraryRemoveResponse acknowledges removal.
type LibraryRemoveResponse struct {
	Removed bool `json:"removed"`
}

// CheckUpdateRequest runs one on-demand update check.
type CheckUpdateRequest struct{}

// CheckUpdateResponse describes the newest eligible release, if any.
type CheckUpdateResponse struct {
	Available bool   `json:"available"`
	Version   string `json:"version"`
	URL       string `json:"url"`
}

// TestNotificationRequest triggers a test push.
type TestNotificationRequest struct{}

// TestNotificationResponse reports the outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

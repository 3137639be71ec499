package bridge

import "github.com/google/uuid"

// Cross-process event names. The table is fixed at build time; registration
// and removal always cover the whole table.
const (
	EventFKeyLoad               = "fkey_load"
	EventHoldingTankLoad        = "holding_tank_load"
	EventBulkAddDialogLoad      = "bulk_add_dialog_load"
	EventDisplayReleaseNotes    = "display_release_notes"
	EventManageMode             = "manage_mode"
	EventToggleWaveForm         = "toggle_wave_form"
	EventIncreaseFontSize       = "increase_font_size"
	EventDecreaseFontSize       = "decrease_font_size"
	EventCloseAllTabs           = "close_all_tabs"
	EventAudioDeviceChange      = "audio_device_change"
	EventUpdateDownloadProgress = "update_download_progress"
	EventUpdateReady            = "update_ready"
)

var eventTable = []string{
	EventFKeyLoad,
	EventHoldingTankLoad,
	EventBulkAddDialogLoad,
	EventDisplayReleaseNotes,
	EventManageMode,
	EventToggleWaveForm,
	EventIncreaseFontSize,
	EventDecreaseFontSize,
	EventCloseAllTabs,
	EventAudioDeviceChange,
	EventUpdateDownloadProgress,
	EventUpdateReady,
}

// Events returns the fixed event table.
func Events() []string {
	out := make([]string, len(eventTable))
	copy(out, eventTable)
	return out
}

// Known reports whether name is part of the fixed event table.
func Known(name string) bool {
	for _, event := range eventTable {
		if event == name {
			return true
		}
	}
	return false
}

// Event is the envelope delivered over the cross-process channel.
type Event struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// NewEvent builds an event envelope with a fresh ID.
func NewEvent(name string, payload any) Event {
	return Event{ID: uuid.NewString(), Name: name, Payload: payload}
}

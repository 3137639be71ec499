package logging

// Standardized structured log field names.
const (
	// FieldComponent identifies the subsystem emitting the record.
	FieldComponent = "component"

	// FieldEventType is a machine-readable event identifier.
	FieldEventType = "event_type"

	// FieldErrorHint suggests an operator next step for a failure.
	FieldErrorHint = "error_hint"

	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"

	// FieldProfile names the profile a settings operation targets.
	FieldProfile = "profile"

	// FieldSettingKey names the setting a store operation touches.
	FieldSettingKey = "setting_key"

	// FieldEvent names a bridge event.
	FieldEvent = "event"
)

// Package settings presents a uniform get/set/has/delete interface over
// application settings while keeping installation-wide values and per-profile
// preferences physically separate. Every key is statically classified as
// global or profile-specific; unclassified keys route to the global store.
// Operations degrade to the global store on internal failure instead of
// propagating errors to callers.
package settings

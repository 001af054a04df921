package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config errors (AS001-AS019)
	// ============================================

	"AS001": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No activitystream.json was found in the working directory or any parent directory.",
	},
	"AS002": {
		Category: CategoryConfig,
		Message:  "Config file is not valid JSON",
		Detail:   "activitystream.json could not be parsed. Check for trailing commas or unquoted keys.",
	},
	"AS003": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The configured port must be between 1 and 65535.",
	},

	// ============================================
	// Preference errors (AS020-AS039)
	// ============================================

	"AS020": {
		Category: CategoryPrefs,
		Message:  "Malformed options preference",
		Detail:   "A feed options preference did not contain valid JSON. The section falls back to empty options.",
	},

	// ============================================
	// Protocol errors (AS040-AS059)
	// ============================================

	"AS040": {
		Category: CategoryProtocol,
		Message:  "Malformed message",
		Detail:   "An inbound surface message could not be decoded. The message is dropped and the connection stays open.",
	},
	"AS041": {
		Category: CategoryProtocol,
		Message:  "Message too large",
		Detail:   "An inbound surface message exceeded the configured size limit.",
	},
	"AS042": {
		Category: CategoryProtocol,
		Message:  "Unknown message type",
		Detail:   "The message envelope named a type this server does not handle.",
	},

	// ============================================
	// Surface errors (AS060-AS079)
	// ============================================

	"AS060": {
		Category: CategorySurface,
		Message:  "Surface write failed",
		Detail:   "A broadcast could not be delivered to a connected surface. The surface is dropped.",
	},
	"AS061": {
		Category: CategorySurface,
		Message:  "WebSocket upgrade failed",
		Detail:   "The HTTP connection could not be upgraded to a WebSocket.",
	},
}

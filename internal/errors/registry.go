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
	// Runtime and validation errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "useLanguage must be used within a LanguageProvider",
		Detail:   "The language accessor was called with a context that has no language provider attached.",
	},
	"E002": {
		Category: CategoryValidation,
		Message:  "Unsupported language",
	},
	"E003": {
		Category: CategoryValidation,
		Message:  "Unknown navigation anchor",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Translation catalog incomplete",
		Detail:   "A message ID present in the catalog definition has no translation.",
	},
	"E005": {
		Category: CategoryValidation,
		Message:  "Unknown live event",
	},
	"E006": {
		Category: CategoryRuntime,
		Message:  "Waitlist submission cancelled",
	},

	// ============================================
	// Configuration errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid environment configuration",
	},

	// ============================================
	// Export errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryExport,
		Message:  "Failed to render page",
	},
	"E202": {
		Category: CategoryExport,
		Message:  "Failed to write export output",
	},
	"E203": {
		Category: CategoryExport,
		Message:  "Failed to upload export output",
	},

	// ============================================
	// Session errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategorySession,
		Message:  "Session limit reached",
	},
	"E302": {
		Category: CategorySession,
		Message:  "Session manager is shut down",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

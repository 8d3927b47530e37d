package model

type Message struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

// Message codes reported by operations.
const (
	CodeUnknownOperation     = "UNKNOWN_OPERATION"
	CodeInvalidProperties    = "INVALID_PROPERTIES"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeUnsupportedRoute     = "UNSUPPORTED_ROUTE"
	CodeMissingRecipientCode = "MISSING_RECIPIENT_CODE"
	CodeNoMatchingRoutes     = "NO_MATCHING_ROUTES"
	CodeNoTiers              = "NO_TIERS"
	CodeNegativePoints       = "NEGATIVE_POINTS"
	CodeUnsortedTiers        = "UNSORTED_TIERS"
	CodeCatalogUnavailable   = "CATALOG_UNAVAILABLE"
)

package models

// ============================================================================
// BOARD DEFAULTS
// ============================================================================

// DefaultRecordPosition is the default position for new records (appended at the end)
const DefaultRecordPosition = 9999

// DefaultCurrency is used when a record is created without a currency
const DefaultCurrency = "USD"

// UnclassifiedLabel is the column header shown for unrouted records
const UnclassifiedLabel = "Sin clasificar"

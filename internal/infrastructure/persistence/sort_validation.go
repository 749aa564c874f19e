package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// AccountSortFields contains allowed sort fields for chart-of-accounts queries
var AccountSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"label":      true,
	"class":      true,
	"nature":     true,
	"active":     true,
}

// CounterpartySortFields contains allowed sort fields for counterparties
var CounterpartySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"kind":       true,
	"active":     true,
	"blocked":    true,
	"matricule":  true,
}

// JournalSortFields contains allowed sort fields for journals
var JournalSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"label":      true,
	"type":       true,
	"active":     true,
}

// ExerciseSortFields contains allowed sort fields for fiscal exercises
var ExerciseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"status":     true,
	"start_date": true,
	"end_date":   true,
}

// EntrySortFields contains allowed sort fields for journal entries
var EntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"date":       true,
	"status":     true,
	"label":      true,
}

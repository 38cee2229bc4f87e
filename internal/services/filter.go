package services

import (
	"strings"

	"github.com/damacus/bucket-search/internal/models"
)

// FilterByQuery keeps the records whose key contains query, ignoring case.
// Order is preserved and an empty query keeps everything.
func FilterByQuery(records []models.ObjectRecord, query string) []models.ObjectRecord {
	if query == "" {
		return records
	}
	needle := strings.ToLower(query)
	matched := make([]models.ObjectRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Key), needle) {
			matched = append(matched, r)
		}
	}
	return matched
}

package main

import "strings"

// setField adds a column assignment to a partial update when the request
// actually carried the field. Untrusted input never reaches storage except
// through these allow-lists.
func setField[T any](fields map[string]any, column string, v *T) {
	if v != nil {
		fields[column] = *v
	}
}

// categoryFilter builds the optional category inclusion constraint from a
// comma-separated `categories` query parameter.
func categoryFilter(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	return map[string]any{"category_id": strings.Split(raw, ",")}
}

package sqlite

import (
	"database/sql"
	"strings"
)

// slotValue normalizes an optional slot column: NULL and blank both mean "no value".
func slotValue(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return strings.TrimSpace(s.String)
}

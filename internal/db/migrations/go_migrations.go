// Package migrations contains dialect-aware Go database migrations. Column types
// differ between drivers (MySQL cannot index TEXT keys, PostgreSQL wants
// TIMESTAMPTZ), so every table is created from Go rather than plain SQL.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}

// idType is the column type used for uuid primary and foreign keys.
func idType() string {
	if dialect == "mysql" {
		return "VARCHAR(36)"
	}
	return "TEXT"
}

// nameType is the column type used for short human-readable names.
func nameType() string {
	if dialect == "mysql" {
		return "VARCHAR(255)"
	}
	return "TEXT"
}

func timestampType() string {
	switch dialect {
	case "postgres":
		return "TIMESTAMPTZ"
	case "mysql":
		return "TIMESTAMP(6)"
	default: // sqlite3
		return "DATETIME"
	}
}

func floatType() string {
	switch dialect {
	case "postgres":
		return "DOUBLE PRECISION"
	case "mysql":
		return "DOUBLE"
	default:
		return "REAL"
	}
}

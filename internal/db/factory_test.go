package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"joe-stock.db", "joe-stock.db?_pragma=foreign_keys(1)"},
		{"file:joe.db?cache=shared", "file:joe.db?cache=shared&_pragma=foreign_keys(1)"},
		{"file:joe.db?_pragma=foreign_keys(0)", "file:joe.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, sqliteDSN(tt.in))
	}
}

func TestNew_SQLiteEnforcesForeignKeys(t *testing.T) {
	conn, err := New("sqlite3", filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var on int
	require.NoError(t, conn.Get(&on, "PRAGMA foreign_keys"))
	require.Equal(t, 1, on)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New("oracle", "x")
	require.ErrorContains(t, err, "unsupported DB driver")
}

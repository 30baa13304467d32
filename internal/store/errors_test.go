package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "postgres unique violation", err: &pq.Error{Code: "23505"}, want: true},
		{name: "postgres wrapped", err: fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), want: true},
		{name: "postgres fk violation", err: &pq.Error{Code: "23503"}, want: false},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, want: false},
		{name: "sqlite message", err: errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), want: true},
		{name: "unrelated", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isUniqueConstraintError(tt.err))
		})
	}
}

func TestIsForeignKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "postgres fk violation", err: fmt.Errorf("delete: %w", &pq.Error{Code: "23503"}), want: true},
		{name: "postgres unique violation", err: &pq.Error{Code: "23505"}, want: false},
		{name: "mysql row referenced", err: &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}, want: true},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062}, want: false},
		{name: "sqlite message", err: errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), want: true},
		{name: "unrelated", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isForeignKeyError(tt.err))
		})
	}
}

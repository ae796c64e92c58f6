package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/collections", "pgx5://u:p@db:5432/collections"},
		{"postgresql://u:p@db/collections?sslmode=disable", "pgx5://u:p@db/collections?sslmode=disable"},
		{"pgx5://db/collections", "pgx5://db/collections"},
		{"host=db dbname=collections", "host=db dbname=collections"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
		})
	}
}

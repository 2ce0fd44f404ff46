package postgres

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestMigrator_MissingSource(t *testing.T) {
	m := NewMigrator("postgres://localhost:1/db?sslmode=disable", "/nonexistent/migrations", zerolog.Nop())

	assert.Error(t, m.Up())
	assert.Error(t, m.Down())
}

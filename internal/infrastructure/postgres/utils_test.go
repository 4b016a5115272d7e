package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClasificacionDeErroresPg(t *testing.T) {
	invalidUUID := fmt.Errorf("get commission: %w", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isInvalidTextRepresentation(invalidUUID))
	assert.False(t, isInvalidTextRepresentation(unique))
	assert.False(t, isInvalidTextRepresentation(errors.New("22P02")))

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(invalidUUID))
}

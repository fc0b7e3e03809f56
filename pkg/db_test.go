package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationError(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: "23505", ConstraintName: "usuarios_email_key"}
	assert.True(t, IsUniqueViolationError(uniqueErr))
	assert.True(t, IsUniqueViolationError(fmt.Errorf("insert user: %w", uniqueErr)))

	assert.False(t, IsUniqueViolationError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolationError(errors.New("some other error")))
	assert.False(t, IsUniqueViolationError(nil))
}

func TestIsForeignKeyViolationError(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "fichas_usuario_id_fkey"}
	assert.True(t, IsForeignKeyViolationError(fkErr))
	assert.True(t, IsForeignKeyViolationError(fmt.Errorf("insert ficha: %w", fkErr)))

	assert.False(t, IsForeignKeyViolationError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolationError(errors.New("some other error")))
	assert.False(t, IsForeignKeyViolationError(nil))
}

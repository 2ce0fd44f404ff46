package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier() *Retrier {
	r := NewRetrier(zerolog.Nop())
	r.maxRetries = 2
	r.initialInterval = time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = time.Second
	return r
}

func TestRetrier_RetriesOnRetryableError(t *testing.T) {
	attempts := 0
	err := fastRetrier().Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &pgconn.PgError{Code: pgErrSerializationFailure}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetrier_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	err := fastRetrier().Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	assert.True(t, hasCode(err, pgErrDeadlock))
	assert.Equal(t, 3, attempts)
}

func TestRetrier_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	permanentErr := &pgconn.PgError{Code: pgErrUniqueViolation}

	err := fastRetrier().Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	assert.True(t, errors.Is(err, permanentErr))
	assert.Equal(t, 1, attempts)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(&pgconn.PgError{Code: pgErrDeadlock}))
	assert.False(t, isRetryableError(&pgconn.PgError{Code: pgErrCheckViolation}))
	assert.False(t, isRetryableError(errors.New("other")))
}

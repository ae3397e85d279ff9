package tabula_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tabula"
)

func TestConnectionError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := tabula.NewConnectionError("ping", errors.New("dial tcp: refused"))
		assert.Equal(t, "tabula: connection: ping: dial tcp: refused", err.Error())
		assert.Equal(t, "tabula: connection: open", tabula.NewConnectionError("open", nil).Error())
	})

	t.Run("Is", func(t *testing.T) {
		cause := errors.New("login failed")
		err := tabula.NewConnectionError("open", cause)
		assert.True(t, errors.Is(err, tabula.ErrConnection))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("IsConnectionError", func(t *testing.T) {
		err := tabula.NewConnectionError("select database", nil)
		assert.True(t, tabula.IsConnectionError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, tabula.IsConnectionError(wrapped))

		// Not connected is reported through a ConnectionError.
		assert.True(t, tabula.IsConnectionError(tabula.NewConnectionError("execute", tabula.ErrNotConnected)))

		assert.False(t, tabula.IsConnectionError(errors.New("other error")))
		assert.False(t, tabula.IsConnectionError(nil))
	})
}

func TestQueryError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := tabula.NewQueryError("SELECT 1/0", errors.New("divide by zero"))
		assert.Equal(t, "tabula: query error: divide by zero\nSELECT 1/0", err.Error())
	})

	t.Run("Fields", func(t *testing.T) {
		cause := errors.New("syntax error")
		err := fmt.Errorf("exec: %w", tabula.NewQueryError("SELEC 1", cause))

		var qe *tabula.QueryError
		require.True(t, errors.As(err, &qe))
		assert.Equal(t, "SELEC 1", qe.SQL)
		assert.Equal(t, cause, qe.Unwrap())
		assert.True(t, errors.Is(err, tabula.ErrQuery))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("IsQueryError", func(t *testing.T) {
		assert.True(t, tabula.IsQueryError(tabula.NewQueryError("x", nil)))
		assert.True(t, tabula.IsQueryError(tabula.ErrQuery))
		assert.False(t, tabula.IsQueryError(errors.New("other error")))
		assert.False(t, tabula.IsQueryError(nil))
	})
}

func TestUnsupportedPagingError(t *testing.T) {
	err := tabula.NewUnsupportedPagingError(-1, 10, "offset requires a limit")
	assert.Equal(t, "tabula: unsupported paging (limit=-1, offset=10): offset requires a limit", err.Error())
	assert.True(t, errors.Is(err, tabula.ErrUnsupportedPaging))
	assert.True(t, tabula.IsUnsupportedPaging(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, tabula.IsUnsupportedPaging(tabula.NewNotImplementedError("x")))
	assert.False(t, tabula.IsUnsupportedPaging(nil))
}

func TestUnsupportedTypeError(t *testing.T) {
	err := tabula.NewUnsupportedTypeError("escape", "float")
	assert.Equal(t, `tabula: escape: unsupported type "float"`, err.Error())
	assert.True(t, errors.Is(err, tabula.ErrUnsupportedType))
	assert.True(t, tabula.IsUnsupportedType(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, tabula.IsUnsupportedType(errors.New("other error")))
	assert.False(t, tabula.IsUnsupportedType(nil))
}

func TestNotImplementedError(t *testing.T) {
	err := tabula.NewNotImplementedError("tables")
	assert.Equal(t, "tabula: tables is not implemented", err.Error())
	assert.True(t, errors.Is(err, tabula.ErrNotImplemented))
	assert.True(t, tabula.IsNotImplemented(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, tabula.IsNotImplemented(errors.New("other error")))
	assert.False(t, tabula.IsNotImplemented(nil))
}

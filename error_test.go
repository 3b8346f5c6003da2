package zimsearch_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/zimsearch"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := zimsearch.Errorf(zimsearch.ENOTFOUND, "archive %q not found", "wiki")

	assert.Equal(t, zimsearch.ENOTFOUND, zimsearch.ErrorCode(err))
	assert.Equal(t, "archive \"wiki\" not found", zimsearch.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, zimsearch.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zimsearch.EINTERNAL, zimsearch.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, zimsearch.ErrorMessage(nil))
}

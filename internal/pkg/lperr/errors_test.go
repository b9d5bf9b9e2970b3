package lperr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImmutable(t *testing.T) {
	e := New(400, "INVALID_REQUEST", "invalid request: some or all request parameters are invalid")
	changedE := e.Msg("%s", "changed")

	assert.NotEqual(t, "changed", e.Message)
	assert.Equal(t, "changed", changedE.Message)
}

func TestWithExtras(t *testing.T) {
	e := ErrInvalidReq.WithExtras(Extras{"field": "pinned_numbers"})

	assert.Nil(t, ErrInvalidReq.Extras)
	assert.Equal(t, "pinned_numbers", (*e.Extras)["field"])
	assert.Equal(t, "INVALID_REQUEST: invalid request: some or all request parameters are invalid", e.Error())
}

func TestNewInvalidViolations(t *testing.T) {
	e := NewInvalidViolations([]string{"resource"})

	assert.Equal(t, ErrInvalidReq.StatusCode, e.StatusCode)
	assert.Nil(t, ErrInvalidReq.Extras)
	assert.Equal(t, []string{"resource"}, (*e.Extras)["violations"])
}

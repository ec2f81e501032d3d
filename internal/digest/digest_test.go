package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf_Deterministic(t *testing.T) {
	assert.Equal(t, Of("hello"), Of("hello"))
	assert.Equal(t, Of(42), Of(42))
}

func TestOf_KnownVector(t *testing.T) {
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		Of("hello"))
}

func TestOf_StringifiesValues(t *testing.T) {
	assert.Equal(t, Of("42"), Of(42))
	assert.Equal(t, Of("true"), Of(true))
	assert.Equal(t, Of("abc"), Of([]byte("abc")))
}

func TestOf_DistinctInputs(t *testing.T) {
	inputs := []string{"", "a", "b", "ab", "ba", "a1", "1a"}
	seen := make(map[string]string)
	for _, in := range inputs {
		id := Of(in)
		prev, dup := seen[id]
		assert.False(t, dup, "collision between %q and %q", in, prev)
		seen[id] = in
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, Of("abc"), Join("a", "b", "c"))
	assert.Equal(t, Of(""), Join())
}

func TestFields_SeparatesParts(t *testing.T) {
	assert.NotEqual(t, Fields("ab", "c"), Fields("a", "bc"))
	assert.Equal(t, Fields("a", "b"), Fields("a", "b"))
	assert.NotEqual(t, Join("a", "b"), Fields("a", "b"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Of("x")))
	assert.Len(t, Of("x"), Size)
	assert.False(t, Valid("abc"))
	assert.False(t, Valid("ZZ"+Of("x")[2:]))
}

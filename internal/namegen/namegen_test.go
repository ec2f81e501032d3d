package namegen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var namePattern = regexp.MustCompile(`^[a-z]+-[a-z]+-[a-z]+-\d{3}$`)

func TestGenerator_Format(t *testing.T) {
	g := New(0)
	for range 50 {
		assert.Regexp(t, namePattern, g.Next())
	}
}

func TestGenerator_SeededIsDeterministic(t *testing.T) {
	a := New(7)
	b := New(7)
	for range 10 {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestGenerator_DifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for range 10 {
		if a.Next() != b.Next() {
			same = false
		}
	}
	assert.False(t, same)
}

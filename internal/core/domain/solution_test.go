package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeploymentStatus_IsValid(t *testing.T) {
	tests := []struct {
		status   DeploymentStatus
		expected bool
	}{
		{StatusStaging, true},
		{StatusProduction, true},
		{StatusArchived, true},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestDeploymentStatus_Next(t *testing.T) {
	next, ok := StatusStaging.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusProduction, next)

	next, ok = StatusProduction.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusArchived, next)

	_, ok = StatusArchived.Next()
	assert.False(t, ok)
}

func TestTruncateSolutionName(t *testing.T) {
	short := "pricing"
	assert.Equal(t, short, TruncateSolutionName(short))

	long := strings.Repeat("é", MaxSolutionNameLength+20)
	got := TruncateSolutionName(long)
	assert.Equal(t, MaxSolutionNameLength, len([]rune(got)))
}

func TestSolutionUpdate(t *testing.T) {
	assert.True(t, SolutionUpdate{}.IsEmpty())

	name := "renamed"
	desc := ""
	u := SolutionUpdate{Name: &name, Description: &desc}
	assert.False(t, u.IsEmpty())

	got := u.Apply(Solution{ID: "s1", Name: "old", Description: "old desc", Maintainers: "ops"})
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, "renamed", got.Name)
	assert.Empty(t, got.Description)
	assert.Equal(t, "ops", got.Maintainers)
}

func TestRefs(t *testing.T) {
	assert.True(t, SolutionRef{}.IsZero())
	assert.Equal(t, "id", SolutionRef{ID: "id", Name: "name"}.String())
	assert.Equal(t, "name", SolutionRef{Name: "name"}.String())

	assert.True(t, ParameterSetRef{}.IsZero())
	assert.Equal(t, "id", ParameterSetRef{ID: "id", Name: "name"}.String())
	assert.Equal(t, "name", ParameterSetRef{Name: "name"}.String())
}

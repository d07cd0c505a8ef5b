package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableUnmarshal(t *testing.T) {
	var req struct {
		Priority  Nullable[int]    `json:"priority"`
		ActionTag Nullable[string] `json:"action_tag"`
		Notes     Nullable[string] `json:"notes"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"priority":null,"action_tag":"follow up"}`), &req))

	assert.True(t, req.Priority.Set)
	assert.Nil(t, req.Priority.Value)
	assert.True(t, req.ActionTag.Set)
	require.NotNil(t, req.ActionTag.Value)
	assert.Equal(t, "follow up", *req.ActionTag.Value)
	assert.False(t, req.Notes.Set)
}

func TestNextPriority(t *testing.T) {
	one, two, three := 1, 2, 3
	tests := []struct {
		name    string
		current *int
		want    *int
	}{
		{"none to P1", nil, &one},
		{"P1 to P2", &one, &two},
		{"P2 to P3", &two, &three},
		{"P3 to none", &three, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPriority(tt.current))
		})
	}
}

func TestPatchApplyAndClone(t *testing.T) {
	p := 2
	tag := "call"
	c := Contact{Name: "Ada", Priority: &p, ActionTag: &tag, KeyPoints: []string{"math"}}
	clone := c.Clone()

	patch := ContactPatch{
		Priority:    Null[int](),
		ContactInfo: Some(ContactInfo{Email: "ada@example.com"}),
	}
	patch.Apply(&c)

	assert.Nil(t, c.Priority)
	assert.Equal(t, "ada@example.com", c.ContactInfo.Email)
	assert.Equal(t, &tag, c.ActionTag)

	require.NotNil(t, clone.Priority)
	assert.Equal(t, 2, *clone.Priority)
	clone.KeyPoints[0] = "changed"
	assert.Equal(t, "math", c.KeyPoints[0])
	assert.False(t, patch.IsEmpty())
	assert.True(t, ContactPatch{}.IsEmpty())
}

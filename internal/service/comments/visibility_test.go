package comments

import (
	"testing"

	"launchit/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestReplyVisibility_Toggle(t *testing.T) {
	v := NewReplyVisibility()

	assert.False(t, v.IsExpanded("c1"))
	assert.True(t, v.Toggle("c1"))
	assert.True(t, v.IsExpanded("c1"))
	assert.False(t, v.Toggle("c1"))
	assert.False(t, v.IsExpanded("c1"))
}

func TestReplyVisibility_ToggleTwiceIsIdentity(t *testing.T) {
	v := NewReplyVisibility("a", "b")
	before := v.Expanded()

	v.Toggle("c")
	v.Toggle("c")
	v.Toggle("a")
	v.Toggle("a")

	assert.Equal(t, before, v.Expanded())
}

func TestReplyVisibility_ExpandAll(t *testing.T) {
	roots := BuildTree([]models.Comment{
		mk("1", nil, 0),
		mk("2", strPtr("1"), 1),
		mk("3", strPtr("2"), 2),
		mk("4", nil, 3),
	})

	v := NewReplyVisibility()
	v.ExpandAll(roots)

	assert.Equal(t, []string{"1", "2"}, v.Expanded())
}

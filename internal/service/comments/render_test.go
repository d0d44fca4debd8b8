package comments

import (
	"strings"
	"testing"
	"time"

	"launchit/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func renderFixture() ([]*models.CommentNode, time.Time) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	c1 := models.Comment{ID: "c1", AuthorID: "u1", Content: "Great launch!", CreatedAt: now.Add(-2 * time.Hour),
		Author: &models.AuthorSummary{DisplayName: "Ada"}}
	c2 := models.Comment{ID: "c2", AuthorID: "bob", ParentID: strPtr("c1"), Content: "Agreed", CreatedAt: now.Add(-time.Hour)}
	c3 := models.Comment{ID: "c3", AuthorID: "eve", ParentID: strPtr("c2"), Deleted: true, CreatedAt: now.Add(-50 * time.Minute)}
	c4 := models.Comment{ID: "c4", AuthorID: "cy", ParentID: strPtr("c1"), Content: "Nice\nwork", CreatedAt: now.Add(-30 * time.Minute)}
	c5 := models.Comment{ID: "c5", AuthorID: "dee", Content: "Second", CreatedAt: now.Add(-72 * time.Hour)}

	return BuildTree([]models.Comment{c5, c1, c2, c3, c4}), now
}

func TestRenderThread_AllExpanded(t *testing.T) {
	roots, now := renderFixture()

	want := strings.Join([]string{
		"dee · 3d ago: Second",
		"Ada · 2h ago: Great launch!",
		"├── bob · 1h ago: Agreed",
		"│   └── [deleted] · 50m ago",
		"└── cy · 30m ago: Nice work",
	}, "\n")

	assert.Equal(t, want, RenderThread(roots, RenderOptions{Now: now}))
}

func TestRenderThread_Collapsed(t *testing.T) {
	roots, now := renderFixture()

	t.Run("nothing expanded", func(t *testing.T) {
		want := strings.Join([]string{
			"dee · 3d ago: Second",
			"Ada · 2h ago: Great launch!",
			"└── [3 replies hidden]",
		}, "\n")
		got := RenderThread(roots, RenderOptions{Now: now, Visibility: NewReplyVisibility()})
		assert.Equal(t, want, got)
	})

	t.Run("nested collapse", func(t *testing.T) {
		want := strings.Join([]string{
			"dee · 3d ago: Second",
			"Ada · 2h ago: Great launch!",
			"├── bob · 1h ago: Agreed",
			"│   └── [1 reply hidden]",
			"└── cy · 30m ago: Nice work",
		}, "\n")
		got := RenderThread(roots, RenderOptions{Now: now, Visibility: NewReplyVisibility("c1")})
		assert.Equal(t, want, got)
	})
}

func TestRenderThread_Empty(t *testing.T) {
	assert.Equal(t, "", RenderThread(nil, RenderOptions{Now: time.Now()}))
}

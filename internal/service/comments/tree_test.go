package comments

import (
	"testing"
	"time"

	"launchit/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

// mk builds a comment created `minutes` after baseTime
func mk(id string, parentID *string, minutes int) models.Comment {
	return models.Comment{
		ID:        id,
		ProjectID: "p1",
		AuthorID:  "author-" + id,
		ParentID:  parentID,
		Content:   "content " + id,
		CreatedAt: baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}

func ids(nodes []*models.CommentNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestBuildTree_Empty(t *testing.T) {
	roots := BuildTree(nil)
	require.NotNil(t, roots)
	assert.Empty(t, roots)
}

func TestBuildTree_Chain(t *testing.T) {
	roots := BuildTree([]models.Comment{
		mk("1", nil, 0),
		mk("2", strPtr("1"), 1),
		mk("3", strPtr("2"), 2),
	})

	require.Len(t, roots, 1)
	assert.Equal(t, "1", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "2", roots[0].Children[0].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "3", roots[0].Children[0].Children[0].ID)
	assert.NotNil(t, roots[0].Children[0].Children[0].Children, "leaf children is an empty list")
	assert.Empty(t, roots[0].Children[0].Children[0].Children)
}

func TestBuildTree_DanglingParentDropped(t *testing.T) {
	roots := BuildTree([]models.Comment{mk("5", strPtr("99"), 0)})
	assert.Empty(t, roots)
}

func TestBuildTree_DanglingParentPromoted(t *testing.T) {
	roots := NewTreeBuilder(OrphanPromote).Build([]models.Comment{
		mk("1", nil, 0),
		mk("5", strPtr("99"), 1),
		mk("6", strPtr("5"), 2),
	})

	assert.Equal(t, []string{"1", "5"}, ids(roots))
	assert.Equal(t, []string{"6"}, ids(roots[1].Children))
}

func TestBuildTree_ChildBeforeParent(t *testing.T) {
	roots := BuildTree([]models.Comment{
		mk("2", strPtr("1"), 1),
		mk("1", nil, 0),
	})

	require.Len(t, roots, 1)
	assert.Equal(t, "1", roots[0].ID)
	assert.Equal(t, []string{"2"}, ids(roots[0].Children))
}

func TestBuildTree_PreservesInputOrder(t *testing.T) {
	roots := BuildTree([]models.Comment{
		mk("a", nil, 0),
		mk("b", nil, 1),
		mk("a1", strPtr("a"), 2),
		mk("b1", strPtr("b"), 3),
		mk("a2", strPtr("a"), 4),
		mk("a3", strPtr("a"), 5),
	})

	assert.Equal(t, []string{"a", "b"}, ids(roots))
	assert.Equal(t, []string{"a1", "a2", "a3"}, ids(roots[0].Children))
	assert.Equal(t, []string{"b1"}, ids(roots[1].Children))
}

func TestBuildTree_EveryReachableNodeAppearsOnce(t *testing.T) {
	input := []models.Comment{
		mk("1", nil, 0),
		mk("2", strPtr("1"), 1),
		mk("3", strPtr("1"), 2),
		mk("4", strPtr("3"), 3),
		mk("5", nil, 4),
		mk("6", strPtr("5"), 5),
	}

	flat := Flatten(BuildTree(input))

	seen := make(map[string]int)
	for _, n := range flat {
		seen[n.ID]++
	}
	assert.Len(t, flat, len(input))
	for _, c := range input {
		assert.Equal(t, 1, seen[c.ID], c.ID)
	}
}

func TestBuildTree_SelfReferenceIsDangling(t *testing.T) {
	self := mk("7", strPtr("7"), 0)

	assert.Empty(t, BuildTree([]models.Comment{self}))

	promoted := NewTreeBuilder(OrphanPromote).Build([]models.Comment{self})
	require.Len(t, promoted, 1)
	assert.Empty(t, promoted[0].Children)
}

func TestBuildTree_CycleIsUnreachable(t *testing.T) {
	input := []models.Comment{
		mk("1", nil, 0),
		mk("2", strPtr("3"), 1),
		mk("3", strPtr("2"), 2),
	}

	for _, policy := range []OrphanPolicy{OrphanDrop, OrphanPromote} {
		t.Run(string(policy), func(t *testing.T) {
			roots := NewTreeBuilder(policy).Build(input)
			assert.Equal(t, []string{"1"}, ids(roots))
			assert.Len(t, Flatten(roots), 1)
		})
	}
}

func TestBuildTree_DuplicateIDFirstWins(t *testing.T) {
	first := mk("1", nil, 0)
	second := mk("1", nil, 1)
	second.Content = "second"

	roots := BuildTree([]models.Comment{first, second})
	require.Len(t, roots, 1)
	assert.Equal(t, "content 1", roots[0].Content)
}

func TestBuildTree_KeepsTombstonesWithReplies(t *testing.T) {
	parent := mk("1", nil, 0)
	parent.Deleted = true
	parent.Content = ""

	roots := BuildTree([]models.Comment{parent, mk("2", strPtr("1"), 1)})
	require.Len(t, roots, 1)
	assert.Equal(t, models.CommentStateTombstoned, roots[0].State())
	assert.Equal(t, []string{"2"}, ids(roots[0].Children))
}

func TestWalk_GuardsAgainstHandBuiltCycles(t *testing.T) {
	a := &models.CommentNode{Comment: models.Comment{ID: "a"}}
	b := &models.CommentNode{Comment: models.Comment{ID: "b"}}
	a.Children = []*models.CommentNode{b}
	b.Children = []*models.CommentNode{a}

	assert.Equal(t, []string{"a", "b"}, ids(Flatten([]*models.CommentNode{a})))
	assert.Equal(t, 1, CountDescendants(a))
}

func TestWalk_SkipSubtree(t *testing.T) {
	roots := BuildTree([]models.Comment{
		mk("1", nil, 0),
		mk("2", strPtr("1"), 1),
		mk("3", strPtr("2"), 2),
		mk("4", nil, 3),
	})

	var visited []string
	var depths []int
	Walk(roots, func(n *models.CommentNode, depth int) bool {
		visited = append(visited, n.ID)
		depths = append(depths, depth)
		return n.ID != "2"
	})

	assert.Equal(t, []string{"1", "2", "4"}, visited)
	assert.Equal(t, []int{0, 1, 0}, depths)
}

func TestParseOrphanPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    OrphanPolicy
		wantErr bool
	}{
		{"", OrphanDrop, false},
		{"drop", OrphanDrop, false},
		{"promote", OrphanPromote, false},
		{"adopt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrphanPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

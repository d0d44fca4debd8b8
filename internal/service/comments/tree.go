package comments

import (
	"fmt"

	"launchit/internal/domain/models"
)

// OrphanPolicy decides what happens to a comment whose parent is not in the batch.
type OrphanPolicy string

const (
	// OrphanDrop leaves the comment out of the tree entirely.
	OrphanDrop OrphanPolicy = "drop"
	// OrphanPromote shows the comment as a top-level comment.
	OrphanPromote OrphanPolicy = "promote"
)

// ParseOrphanPolicy parses a policy name; empty means OrphanDrop.
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch OrphanPolicy(s) {
	case "", OrphanDrop:
		return OrphanDrop, nil
	case OrphanPromote:
		return OrphanPromote, nil
	default:
		return "", fmt.Errorf("unknown orphan policy %q (want %q or %q)", s, OrphanDrop, OrphanPromote)
	}
}

// TreeBuilder turns the flat comment list of one project into reply trees.
type TreeBuilder struct {
	policy OrphanPolicy
}

// NewTreeBuilder creates a tree builder with the given orphan policy
func NewTreeBuilder(policy OrphanPolicy) *TreeBuilder {
	if policy == "" {
		policy = OrphanDrop
	}
	return &TreeBuilder{policy: policy}
}

// Policy returns the orphan policy in use
func (b *TreeBuilder) Policy() OrphanPolicy {
	return b.policy
}

// BuildTree builds the forest with the default drop policy.
func BuildTree(comments []models.Comment) []*models.CommentNode {
	return NewTreeBuilder(OrphanDrop).Build(comments)
}

// Build converts comments into root nodes, each with its replies nested
// below it. Input order is kept inside every level, so a list sorted by
// creation time yields oldest-first replies. A child listed before its
// parent is still attached. Runs in O(n).
//
// A comment whose parent is missing from the batch (or is the comment
// itself) is handled by the orphan policy. Parent chains are never walked,
// so a parent_id cycle cannot loop: comments on a cycle with no root are
// simply unreachable from the returned roots.
func (b *TreeBuilder) Build(comments []models.Comment) []*models.CommentNode {
	// First pass: create all nodes so forward references resolve
	nodeMap := make(map[string]*models.CommentNode, len(comments))
	ordered := make([]*models.CommentNode, 0, len(comments))
	for _, comment := range comments {
		if _, exists := nodeMap[comment.ID]; exists {
			// Duplicate ID: first occurrence wins
			continue
		}
		node := &models.CommentNode{
			Comment:  comment,
			Children: []*models.CommentNode{},
		}
		nodeMap[comment.ID] = node
		ordered = append(ordered, node)
	}

	// Second pass: attach each node to its parent in input order
	roots := make([]*models.CommentNode, 0)
	for _, node := range ordered {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}

		parent, exists := nodeMap[*node.ParentID]
		if exists && parent != node {
			parent.Children = append(parent.Children, node)
			continue
		}

		if b.policy == OrphanPromote {
			roots = append(roots, node)
		}
	}

	return roots
}

// Walk visits nodes depth-first in pre-order, starting at the roots.
// Returning false from fn skips the node's replies. Each node is visited
// at most once, even if the structure was assembled by hand with a cycle.
func Walk(roots []*models.CommentNode, fn func(node *models.CommentNode, depth int) bool) {
	visited := make(map[*models.CommentNode]bool)

	var visit func(node *models.CommentNode, depth int)
	visit = func(node *models.CommentNode, depth int) {
		if node == nil || visited[node] {
			return
		}
		visited[node] = true

		if !fn(node, depth) {
			return
		}
		for _, child := range node.Children {
			visit(child, depth+1)
		}
	}

	for _, root := range roots {
		visit(root, 0)
	}
}

// Flatten returns all nodes reachable from roots in pre-order
func Flatten(roots []*models.CommentNode) []*models.CommentNode {
	var out []*models.CommentNode
	Walk(roots, func(node *models.CommentNode, _ int) bool {
		out = append(out, node)
		return true
	})
	return out
}

// CountDescendants counts every reply below node, at any depth
func CountDescendants(node *models.CommentNode) int {
	if node == nil {
		return 0
	}
	return len(Flatten([]*models.CommentNode{node})) - 1
}

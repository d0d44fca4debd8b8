package comments

import (
	"sort"

	"launchit/internal/domain/models"
)

// ReplyVisibility tracks which comments have their replies expanded in a view.
// It is per-session view state and never touches stored data.
// Not safe for concurrent use.
type ReplyVisibility struct {
	expanded map[string]struct{}
}

// NewReplyVisibility creates a visibility set with the given comments expanded
func NewReplyVisibility(expandedIDs ...string) *ReplyVisibility {
	v := &ReplyVisibility{expanded: make(map[string]struct{}, len(expandedIDs))}
	for _, id := range expandedIDs {
		v.expanded[id] = struct{}{}
	}
	return v
}

// Toggle flips whether the replies of nodeID are shown and returns the new state
func (v *ReplyVisibility) Toggle(nodeID string) bool {
	if _, ok := v.expanded[nodeID]; ok {
		delete(v.expanded, nodeID)
		return false
	}
	v.expanded[nodeID] = struct{}{}
	return true
}

// IsExpanded reports whether the replies of nodeID are shown
func (v *ReplyVisibility) IsExpanded(nodeID string) bool {
	_, ok := v.expanded[nodeID]
	return ok
}

// ExpandAll expands every node that has replies
func (v *ReplyVisibility) ExpandAll(roots []*models.CommentNode) {
	Walk(roots, func(node *models.CommentNode, _ int) bool {
		if len(node.Children) > 0 {
			v.expanded[node.ID] = struct{}{}
		}
		return true
	})
}

// Expanded returns the expanded node IDs in sorted order
func (v *ReplyVisibility) Expanded() []string {
	ids := make([]string, 0, len(v.expanded))
	for id := range v.expanded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

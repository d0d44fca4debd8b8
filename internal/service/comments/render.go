package comments

import (
	"fmt"
	"strings"
	"time"

	"launchit/internal/domain/models"
	"launchit/internal/utils"
)

// RenderOptions controls RenderThread output
type RenderOptions struct {
	// Now is the reference instant for relative times
	Now time.Time
	// Visibility selects which replies are shown; nil shows all of them
	Visibility *ReplyVisibility
}

// RenderThread renders reply trees as indented text using box-drawing
// characters, one line per comment. Collapsed comments show how many
// replies are hidden below them.
//
// Example output:
//
//	ada · 2h ago: Great launch!
//	├── bob · 1h ago: Agreed
//	│   └── [deleted] · 50m ago
//	└── [2 replies hidden]
func RenderThread(roots []*models.CommentNode, opts RenderOptions) string {
	var b strings.Builder
	visited := make(map[*models.CommentNode]bool)

	for _, root := range roots {
		renderNode(&b, root, "", "", opts, visited)
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderNode writes node with linePrefix, then its replies with childPrefix
func renderNode(b *strings.Builder, node *models.CommentNode, linePrefix, childPrefix string, opts RenderOptions, visited map[*models.CommentNode]bool) {
	if visited[node] {
		return
	}
	visited[node] = true

	b.WriteString(linePrefix)
	b.WriteString(describeNode(node, opts.Now))
	b.WriteString("\n")

	if len(node.Children) == 0 {
		return
	}

	if opts.Visibility != nil && !opts.Visibility.IsExpanded(node.ID) {
		hidden := CountDescendants(node)
		noun := "replies"
		if hidden == 1 {
			noun = "reply"
		}
		fmt.Fprintf(b, "%s└── [%d %s hidden]\n", childPrefix, hidden, noun)
		return
	}

	for i, child := range node.Children {
		branch, continuation := "├── ", "│   "
		if i == len(node.Children)-1 {
			branch, continuation = "└── ", "    "
		}
		renderNode(b, child, childPrefix+branch, childPrefix+continuation, opts, visited)
	}
}

// describeNode renders the single line for one comment
func describeNode(node *models.CommentNode, now time.Time) string {
	when := utils.FormatRelativeTime(now, node.CreatedAt)
	if node.Deleted {
		return "[deleted] · " + when
	}

	author := node.AuthorID
	if node.Author != nil && node.Author.DisplayName != "" {
		author = node.Author.DisplayName
	}

	return fmt.Sprintf("%s · %s: %s", author, when, strings.Join(strings.Fields(node.Content), " "))
}

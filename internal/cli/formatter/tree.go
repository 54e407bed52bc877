package formatter

import "strings"

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
)

// RenderTree renders a title followed by its leaves as box-drawing
// branches. Leaves are written as given; style them before calling.
func RenderTree(title string, leaves []string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for i, leaf := range leaves {
		connector := treeBranch
		if i == len(leaves)-1 {
			connector = treeCorner
		}
		b.WriteString(StyleDim.Render(connector))
		b.WriteString(leaf)
		b.WriteString("\n")
	}
	return b.String()
}

package consolidate

import (
	"os"
	"sort"
	"strings"
)

// treeNode is one entry in the rendered candidate tree.
type treeNode struct {
	name     string
	dir      bool
	children map[string]*treeNode
}

func (n *treeNode) child(name string, dir bool) *treeNode {
	if n.children == nil {
		n.children = make(map[string]*treeNode)
	}
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{name: name, dir: dir}
		n.children[name] = c
	}
	return c
}

// RenderTree draws the processed candidates as a connector tree rooted at
// rootName. The input paths are slash-normalized and relative to the
// project root, so the rendering always agrees with the artifact the same
// run produced.
func RenderTree(rootName string, rels []string) string {
	root := &treeNode{name: rootName, dir: true}
	for _, rel := range rels {
		node := root
		segs := strings.Split(rel, "/")
		for i, seg := range segs {
			node = node.child(seg, i < len(segs)-1)
		}
	}

	var b strings.Builder
	b.WriteString(rootName + "/\n")
	renderChildren(&b, root, "")
	return b.String()
}

func renderChildren(b *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	// Directories first, then case-insensitive name order; names that fold
	// to the same string break the tie on the raw name.
	sort.SliceStable(names, func(i, j int) bool {
		di, dj := node.children[names[i]].dir, node.children[names[j]].dir
		if di != dj {
			return di
		}
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li == lj {
			return names[i] < names[j]
		}
		return li < lj
	})

	for i, name := range names {
		child := node.children[name]
		connector := "├── "
		extension := "│   "
		if i == len(names)-1 {
			connector = "└── "
			extension = "    "
		}
		if child.dir {
			b.WriteString(prefix + connector + child.name + "/\n")
			renderChildren(b, child, prefix+extension)
		} else {
			b.WriteString(prefix + connector + child.name + "\n")
		}
	}
}

// writeTree renders the candidate tree to path. A failure counts as an
// artifact failure: the run produced its main output but could not
// deliver everything the caller asked for.
func writeTree(path, rootName string, rels []string) error {
	if err := os.WriteFile(path, []byte(RenderTree(rootName, rels)), 0644); err != nil {
		return &ArtifactError{Path: path, Op: "write", Err: err}
	}
	return nil
}

package merge

import "github.com/dusk-indust/catmerge/internal/catalog"

// TreeOptions tunes the tree merge.
type TreeOptions struct {
	// PreferNewerShell keeps the newer node's own fields when a node exists
	// on both sides. By default the older node's fields are kept and only
	// its children are replaced by the merged children.
	PreferNewerShell bool
}

// Tree merges two feature trees rooted at the catalog level.
//
// At every level the newer nodes come first, in order. Each older node is
// looked up by id among the nodes collected so far:
//   - not found: the older node is appended with its whole subtree;
//   - found at the feature level: the newer node wins;
//   - found above the feature level: the children of both are merged one
//     level down and the result takes the matched node's slot.
//
// Input nodes are never modified; the result shares untouched subtrees
// with the inputs.
func Tree(older, newer []*catalog.Node, opts TreeOptions) ([]*catalog.Node, Report) {
	m := treeMerger{opts: opts}
	out := m.level(older, newer, catalog.LevelCatalog, "")
	return out, m.rep
}

type treeMerger struct {
	opts TreeOptions
	rep  Report
}

func (m *treeMerger) level(older, newer []*catalog.Node, level catalog.Level, parent string) []*catalog.Node {
	out := make([]*catalog.Node, 0, len(newer)+len(older))
	index := make(map[string]int, len(newer)+len(older))
	for _, n := range newer {
		if _, dup := index[n.ID]; !dup {
			index[n.ID] = len(out)
		}
		out = append(out, n)
	}

	next, hasChildren := level.Next()
	for _, old := range older {
		path := joinPath(parent, old.ID)
		i, found := index[old.ID]
		switch {
		case !found:
			index[old.ID] = len(out)
			out = append(out, old)
			m.rep.Added = append(m.rep.Added, path)
		case !hasChildren:
			m.rep.Replaced = append(m.rep.Replaced, path)
		default:
			matched := out[i]
			shell := old
			if m.opts.PreferNewerShell {
				shell = matched
			}
			out[i] = &catalog.Node{
				ID:       shell.ID,
				Level:    level,
				Extra:    shell.Extra,
				Children: m.level(old.Children, matched.Children, next, path),
			}
			m.rep.Merged = append(m.rep.Merged, path)
		}
	}
	return out
}

func joinPath(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + "/" + id
}

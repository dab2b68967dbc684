// Package category implements the user-editable option tree behind CATEGORY
// fields. Operations are pure: they return a new forest and never mutate the
// input, so a failed insert can safely keep serving the original tree.
package category

import "github.com/gridbase/backend/pkg/utils"

// Node is one labeled option in a category forest. Ids are opaque and unique
// across the whole forest of one field.
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Children []Node `json:"children"`
}

// NewNode creates a leaf node with a freshly generated id
func NewNode(label string) Node {
	return Node{
		ID:       utils.GenerateID(),
		Label:    label,
		Children: []Node{},
	}
}

// Insert adds a labeled node to the forest. With an empty parentID the node is
// appended at root level. Otherwise the forest is searched depth-first and the
// node is appended to the children of the first match; siblings are never
// reordered. Returns the updated forest, the created node, and whether the
// parent was found. On a missing parent the original forest is returned
// untouched and the node is nil.
//
// Nodes along the insertion path are copied; unaffected subtrees are shared
// with the input forest.
func Insert(forest []Node, parentID string, label string) ([]Node, *Node, bool) {
	node := NewNode(label)

	if parentID == "" {
		updated := make([]Node, 0, len(forest)+1)
		updated = append(updated, forest...)
		updated = append(updated, node)
		return updated, &node, true
	}

	updated, found := insertAt(forest, parentID, node)
	if !found {
		return forest, nil, false
	}
	return updated, &node, true
}

// insertAt walks the forest depth-first, rebuilding the path to the first
// node whose id matches parentID.
func insertAt(forest []Node, parentID string, node Node) ([]Node, bool) {
	for i := range forest {
		if forest[i].ID == parentID {
			updated := copyLevel(forest)
			parent := forest[i]
			children := make([]Node, 0, len(parent.Children)+1)
			children = append(children, parent.Children...)
			children = append(children, node)
			parent.Children = children
			updated[i] = parent
			return updated, true
		}
		if sub, found := insertAt(forest[i].Children, parentID, node); found {
			updated := copyLevel(forest)
			parent := forest[i]
			parent.Children = sub
			updated[i] = parent
			return updated, true
		}
	}
	return nil, false
}

func copyLevel(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}

// Find returns the node with the given id, searching depth-first
func Find(forest []Node, id string) *Node {
	for i := range forest {
		if forest[i].ID == id {
			return &forest[i]
		}
		if n := Find(forest[i].Children, id); n != nil {
			return n
		}
	}
	return nil
}

// Count returns the total number of nodes in the forest
func Count(forest []Node) int {
	total := 0
	for i := range forest {
		total += 1 + Count(forest[i].Children)
	}
	return total
}

package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForest() []Node {
	return []Node{
		{ID: "eng", Label: "Engineering", Children: []Node{
			{ID: "backend", Label: "Backend", Children: []Node{
				{ID: "go", Label: "Go", Children: []Node{}},
			}},
			{ID: "frontend", Label: "Frontend", Children: []Node{}},
		}},
		{ID: "sales", Label: "Sales", Children: []Node{}},
	}
}

func TestInsertRoot(t *testing.T) {
	forest := sampleForest()

	updated, node, ok := Insert(forest, "", "Marketing")
	require.True(t, ok)
	require.NotNil(t, node)
	assert.NotEmpty(t, node.ID)
	assert.Equal(t, "Marketing", node.Label)

	require.Len(t, updated, 3)
	assert.Equal(t, node.ID, updated[2].ID)
	// Input forest untouched
	assert.Len(t, forest, 2)
}

func TestInsertIntoEmptyForest(t *testing.T) {
	updated, node, ok := Insert(nil, "", "First")
	require.True(t, ok)
	require.Len(t, updated, 1)
	assert.Equal(t, node.ID, updated[0].ID)
}

func TestInsertNested(t *testing.T) {
	forest := sampleForest()

	updated, node, ok := Insert(forest, "go", "Concurrency")
	require.True(t, ok)

	goNode := Find(updated, "go")
	require.NotNil(t, goNode)
	require.Len(t, goNode.Children, 1)
	assert.Equal(t, node.ID, goNode.Children[0].ID)
	assert.Equal(t, "Concurrency", goNode.Children[0].Label)

	// Original tree still has a childless "go" node
	assert.Empty(t, Find(forest, "go").Children)
}

func TestInsertPreservesSiblingOrder(t *testing.T) {
	forest := sampleForest()

	updated, _, ok := Insert(forest, "backend", "Rust")
	require.True(t, ok)

	backend := Find(updated, "backend")
	require.Len(t, backend.Children, 2)
	assert.Equal(t, "go", backend.Children[0].ID)
	assert.Equal(t, "Rust", backend.Children[1].Label)
}

func TestInsertParentNotFound(t *testing.T) {
	forest := sampleForest()

	updated, node, ok := Insert(forest, "ghost", "X")
	assert.False(t, ok)
	assert.Nil(t, node)
	assert.Equal(t, Count(forest), Count(updated))
}

func TestInsertSharesUnaffectedSubtrees(t *testing.T) {
	forest := sampleForest()

	updated, _, ok := Insert(forest, "frontend", "React")
	require.True(t, ok)

	// The sibling subtree not on the insertion path is shared, not copied
	assert.Same(t, &forest[0].Children[0].Children[0], &updated[0].Children[0].Children[0])
	assert.Equal(t, forest[1], updated[1])
}

func TestFind(t *testing.T) {
	forest := sampleForest()

	assert.Equal(t, "Go", Find(forest, "go").Label)
	assert.Equal(t, "Sales", Find(forest, "sales").Label)
	assert.Nil(t, Find(forest, "ghost"))
	assert.Nil(t, Find(nil, "go"))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 5, Count(sampleForest()))
	assert.Equal(t, 0, Count(nil))
}

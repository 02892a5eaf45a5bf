package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/nodebook-graph/models"
)

type fakeSource struct {
	concepts    []models.Concept
	connections []models.Connection
	conceptErr  error
	connErr     error
}

func (f fakeSource) ListConcepts(context.Context) ([]models.Concept, error) {
	return f.concepts, f.conceptErr
}

func (f fakeSource) ListConnections(context.Context, models.ConnectionFilter) ([]models.Connection, error) {
	return f.connections, f.connErr
}

func sample() fakeSource {
	return fakeSource{
		concepts: []models.Concept{
			{ID: 1, Name: "Software Engineering"},
			{ID: 2, Name: "Requirements"},
			{ID: 3, Name: "Algorithms"},
			{ID: 4, Name: "Data Structures"},
		},
		connections: []models.Connection{
			{ID: 1, SourceID: 1, TargetID: 2, Relation: "sub-concept", Strength: 1},
			{ID: 2, SourceID: 3, TargetID: 4, Relation: "related concept", Strength: 1},
			{ID: 3, SourceID: 3, TargetID: 1, Relation: "used by", Strength: 0.5},
			{ID: 4, SourceID: 1, TargetID: 99, Relation: "dangling", Strength: 1},
		},
	}
}

func TestLoadBuildsGraph(t *testing.T) {
	g, err := Load(context.Background(), sample())
	require.NoError(t, err)

	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Links, 3, "links to unknown concepts are dropped")

	n, ok := g.Node(1)
	require.True(t, ok)
	assert.Equal(t, 2, n.Degree)
	assert.Equal(t, []uint{2, 3}, g.Neighbors(1))
	assert.Equal(t, []uint{1, 4}, g.Neighbors(3))
	assert.Empty(t, g.Neighbors(42))
}

func TestLoadFailsWhenEitherFetchFails(t *testing.T) {
	boom := errors.New("boom")

	src := sample()
	src.conceptErr = boom
	_, err := Load(context.Background(), src)
	assert.ErrorIs(t, err, boom)

	src = sample()
	src.connErr = boom
	_, err = Load(context.Background(), src)
	assert.ErrorIs(t, err, boom)
}

func TestHighlight(t *testing.T) {
	src := sample()
	g := Build(src.concepts, src.connections)

	h := g.Highlight(3)
	assert.Equal(t, map[uint]bool{1: true, 3: true, 4: true}, h.Nodes)
	assert.Equal(t, map[uint]bool{2: true, 3: true}, h.Links)

	empty := g.Highlight(42)
	assert.Empty(t, empty.Nodes)
	assert.Empty(t, empty.Links)
}

func TestViewFocusesOnSelected(t *testing.T) {
	src := sample()
	g := Build(src.concepts, src.connections)

	whole := g.View(0)
	assert.Len(t, whole.Nodes, 4)
	assert.Nil(t, whole.Highlight)
	assert.Nil(t, whole.Neighbors)

	focused := g.View(3)
	require.NotNil(t, focused.Highlight)
	assert.Equal(t, uint(3), focused.Highlight.Selected)
	require.Len(t, focused.Neighbors, 2)
	assert.Equal(t, "Software Engineering", focused.Neighbors[0].Name)
	assert.Equal(t, "Data Structures", focused.Neighbors[1].Name)
}

func TestRelatedConceptsBothDirections(t *testing.T) {
	src := sample()
	related := RelatedConcepts(1, src.concepts, src.connections)

	assert.Equal(t, []models.RelatedConcept{
		{ID: 2, Name: "Requirements", Relation: "sub-concept"},
		{ID: 3, Name: "Algorithms", Relation: "used by"},
	}, related)

	assert.Empty(t, RelatedConcepts(42, src.concepts, src.connections))
}

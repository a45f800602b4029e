package registry

import (
	"encoding/json"
	"testing"

	"archdraw/catalog"
	"archdraw/diagram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestPoolAllocatesLowestFree(t *testing.T) {
	p := NewPool(10)
	for want := 1; want <= 3; want++ {
		id, err := p.Allocate()
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	p.Release(2)
	id, err := p.Allocate()
	require.NoError(t, err)
	assert.Equal(t, 2, id)
}

func TestPoolExhaustion(t *testing.T) {
	p := NewPool(4)
	for i := 0; i < 3; i++ {
		_, err := p.Allocate()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, p.Free())
	_, err := p.Allocate()
	assert.ErrorIs(t, err, ErrPoolExhausted)

	p.Release(3)
	p.Release(3)
	assert.Equal(t, 1, p.Free())
}

func TestPoolReserve(t *testing.T) {
	p := NewPool(10)
	id, err := p.Reserve(7)
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	id, err = p.Reserve(7)
	require.NoError(t, err)
	assert.Equal(t, 1, id, "collision is remapped to the lowest free id")

	id, err = p.Reserve(0)
	require.NoError(t, err)
	assert.Equal(t, 2, id, "id 0 is never valid")

	id, err = p.Reserve(50)
	require.NoError(t, err)
	assert.Equal(t, 3, id, "out of range ids are reassigned")
}

func TestPoolRebuildRemapsCollisions(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: []diagram.Node{
			{ID: 0, Kind: "TextBox"},
			{ID: 1, Kind: "EC2"},
			{ID: 1, Kind: "S3"},
		},
		Frames: []diagram.Frame{{ID: 5, Kind: "VPC", Width: 100, Height: 100}},
		Edges: []diagram.Edge{
			{ID: 5, From: 1, To: 5},
			{ID: 6, From: 0, To: 1},
			{ID: 7, From: 1, To: 99},
		},
	}

	p := NewPool(20)
	require.NoError(t, p.Rebuild(d))

	assert.Equal(t, []int{2, 1, 3}, []int{d.Nodes[0].ID, d.Nodes[1].ID, d.Nodes[2].ID})
	assert.Equal(t, 5, d.Frames[0].ID)
	require.Len(t, d.Edges, 2)
	assert.Equal(t, diagram.Edge{ID: 4, From: 1, To: 5}, d.Edges[0])
	assert.Equal(t, diagram.Edge{ID: 6, From: 2, To: 1}, d.Edges[1])
	assert.Empty(t, diagram.DuplicateIDs(d))

	for _, id := range []int{1, 2, 3, 4, 5, 6} {
		assert.True(t, p.InUse(id), id)
	}
	assert.False(t, p.InUse(7))
}

func TestPoolRebuildExhausted(t *testing.T) {
	d := &diagram.Diagram{Nodes: []diagram.Node{{ID: 1}, {ID: 2}, {ID: 3}}}
	p := NewPool(3)
	assert.ErrorIs(t, p.Rebuild(d), ErrPoolExhausted)
}

func TestSanitizeNodesRejectsGarbage(t *testing.T) {
	s := NewSanitizer(catalog.Default(), 0, 0)
	assert.Empty(t, s.SanitizeNodes(nil))
	assert.Empty(t, s.SanitizeNodes("garbage"))
	assert.Empty(t, s.SanitizeNodes(decode(t, `[{"id":"x"}]`)))
	assert.Empty(t, s.SanitizeNodes(decode(t, `[1, "two", null, {"kind":"EC2"}]`)))
}

func TestSanitizeNodesCoercesCoordinates(t *testing.T) {
	s := NewSanitizer(catalog.Default(), 0, 0)
	nodes := s.SanitizeNodes(decode(t, `[{"id":1,"kind":"EC2","x":"10.7","y":null}]`))
	require.Len(t, nodes, 1)
	assert.Equal(t, diagram.Node{ID: 1, Kind: "EC2", X: 11, Y: 0, Label: "EC2"}, nodes[0])
}

func TestSanitizeNodesFallbacks(t *testing.T) {
	s := NewSanitizer(catalog.Default(), 0, 0)
	nodes := s.SanitizeNodes(decode(t, `[
		{"id":"3","kind":"Quantum","x":"abc","y":4.5},
		{"id":4,"kind":"ELB","label":""},
		{"id":5,"kind":"S3","text":"images"}
	]`))
	require.Len(t, nodes, 3)
	assert.Equal(t, diagram.Node{ID: 3, Kind: "OtherService", X: 0, Y: 5, Label: "その他"}, nodes[0])
	assert.Equal(t, "ALB/NLB", nodes[1].Label)
	assert.Equal(t, "images", nodes[2].Label)
}

func TestSanitizeFramesClampsSize(t *testing.T) {
	s := NewSanitizer(catalog.Default(), 80, 60)
	frames := s.SanitizeFrames(decode(t, `[
		{"id":1,"kind":"VPC","x":0,"y":0,"width":10,"height":-5},
		{"id":2,"kind":"AZ","x":1.2,"y":2.6},
		{"id":3,"kind":"Bogus","width":200,"height":100}
	]`))
	require.Len(t, frames, 3)
	assert.Equal(t, 80.0, frames[0].Width)
	assert.Equal(t, 60.0, frames[0].Height)
	assert.Equal(t, diagram.Frame{ID: 2, Kind: "AZ", X: 1, Y: 3, Width: 80, Height: 60, Label: "AZ"}, frames[1])
	assert.Equal(t, FrameFallbackKind, frames[2].Kind)
}

func TestSanitizeEdges(t *testing.T) {
	s := NewSanitizer(nil, 0, 0)
	edges := s.SanitizeEdges(decode(t, `[{"id":1,"from":2,"to":"3"},{"id":2,"from":"a","to":3},{"id":3,"to":1}]`))
	assert.Equal(t, []diagram.Edge{{ID: 1, From: 2, To: 3}}, edges)
	assert.Empty(t, s.SanitizeEdges(map[string]any{}))
}

func TestSanitizeDocumentDropsDanglingEdges(t *testing.T) {
	s := NewSanitizer(nil, 0, 0)
	d := s.SanitizeDocument(decode(t, `{
		"nodes":[{"id":1,"kind":"EC2","x":0,"y":0},{"id":2,"kind":"x"}],
		"frames":[{"id":3,"kind":"VPC","x":0,"y":0,"width":100,"height":100}],
		"edges":[{"id":4,"from":1,"to":3},{"id":5,"from":1,"to":9},{"id":6,"from":"bad","to":1}]
	}`))
	assert.Len(t, d.Nodes, 2)
	assert.Len(t, d.Frames, 1)
	assert.Equal(t, []diagram.Edge{{ID: 4, From: 1, To: 3}}, d.Edges)

	empty := s.SanitizeDocument("nope")
	assert.True(t, empty.IsEmpty())
}

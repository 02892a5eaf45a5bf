// Package graph turns concepts and connections into the data behind the
// concept graph view.
package graph

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/andrewpaige1/nodebook-graph/models"
)

// Source is the subset of the resource layer a graph load needs
type Source interface {
	ListConcepts(ctx context.Context) ([]models.Concept, error)
	ListConnections(ctx context.Context, filter models.ConnectionFilter) ([]models.Connection, error)
}

type Node struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Degree      int    `json:"degree"`
}

type Link struct {
	ID       uint    `json:"id"`
	Source   uint    `json:"source"`
	Target   uint    `json:"target"`
	Relation string  `json:"relation"`
	Strength float64 `json:"strength"`
}

// Graph is an undirected view over the concept connections
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`

	adjacency map[uint][]uint
	index     map[uint]int
}

// Load fetches concepts and connections concurrently. Both fetches must
// succeed, otherwise the load fails with the first error.
func Load(ctx context.Context, src Source) (*Graph, error) {
	var (
		concepts    []models.Concept
		connections []models.Connection
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		concepts, err = src.ListConcepts(gctx)
		if err != nil {
			return fmt.Errorf("load concepts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		connections, err = src.ListConnections(gctx, models.ConnectionFilter{})
		if err != nil {
			return fmt.Errorf("load connections: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Build(concepts, connections), nil
}

// Build assembles the graph. Links whose endpoints are not among concepts are
// dropped.
func Build(concepts []models.Concept, connections []models.Connection) *Graph {
	gr := &Graph{
		Nodes:     make([]Node, 0, len(concepts)),
		Links:     make([]Link, 0, len(connections)),
		adjacency: make(map[uint][]uint),
		index:     make(map[uint]int, len(concepts)),
	}
	for _, c := range concepts {
		gr.index[c.ID] = len(gr.Nodes)
		gr.Nodes = append(gr.Nodes, Node{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	for _, cn := range connections {
		si, ok := gr.index[cn.SourceID]
		if !ok {
			continue
		}
		ti, ok := gr.index[cn.TargetID]
		if !ok {
			continue
		}
		gr.Links = append(gr.Links, Link{
			ID:       cn.ID,
			Source:   cn.SourceID,
			Target:   cn.TargetID,
			Relation: cn.Relation,
			Strength: cn.Strength,
		})
		gr.Nodes[si].Degree++
		gr.Nodes[ti].Degree++
		gr.adjacency[cn.SourceID] = appendUnique(gr.adjacency[cn.SourceID], cn.TargetID)
		gr.adjacency[cn.TargetID] = appendUnique(gr.adjacency[cn.TargetID], cn.SourceID)
	}
	return gr
}

func appendUnique(ids []uint, id uint) []uint {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Node returns the node for a concept id.
func (g *Graph) Node(id uint) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Neighbors returns the ids connected to id in either direction, ascending.
func (g *Graph) Neighbors(id uint) []uint {
	out := append([]uint{}, g.adjacency[id]...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Highlight is the part of the graph emphasized around a selected concept
type Highlight struct {
	Selected uint          `json:"selected"`
	Nodes    map[uint]bool `json:"nodes"`
	Links    map[uint]bool `json:"links"`
}

// Highlight returns the selected node, its neighbors and the links between
// them. An unknown id yields an empty highlight.
func (g *Graph) Highlight(selected uint) Highlight {
	h := Highlight{Selected: selected, Nodes: map[uint]bool{}, Links: map[uint]bool{}}
	if _, ok := g.index[selected]; !ok {
		return h
	}
	h.Nodes[selected] = true
	for _, n := range g.adjacency[selected] {
		h.Nodes[n] = true
	}
	for _, l := range g.Links {
		if l.Source == selected || l.Target == selected {
			h.Links[l.ID] = true
		}
	}
	return h
}

// RelatedConcepts lists the concepts at the other end of every connection
// touching id, in connection order. Connections to unknown concepts are
// skipped.
func RelatedConcepts(id uint, concepts []models.Concept, connections []models.Connection) []models.RelatedConcept {
	names := make(map[uint]string, len(concepts))
	for _, c := range concepts {
		names[c.ID] = c.Name
	}
	sorted := append([]models.Connection{}, connections...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	related := []models.RelatedConcept{}
	for _, cn := range sorted {
		var other uint
		switch id {
		case cn.SourceID:
			other = cn.TargetID
		case cn.TargetID:
			other = cn.SourceID
		default:
			continue
		}
		name, ok := names[other]
		if !ok {
			continue
		}
		related = append(related, models.RelatedConcept{ID: other, Name: name, Relation: cn.Relation})
	}
	return related
}

// View is the graph as served to clients, optionally focused on one concept.
type View struct {
	Nodes     []Node     `json:"nodes"`
	Links     []Link     `json:"links"`
	Highlight *Highlight `json:"highlight,omitempty"`
	Neighbors []Node     `json:"neighbors,omitempty"`
}

// View focuses the graph on selected. Zero leaves it unfocused.
func (g *Graph) View(selected uint) View {
	v := View{Nodes: g.Nodes, Links: g.Links}
	if selected == 0 {
		return v
	}
	h := g.Highlight(selected)
	v.Highlight = &h
	v.Neighbors = []Node{}
	for _, id := range g.Neighbors(selected) {
		if n, ok := g.Node(id); ok {
			v.Neighbors = append(v.Neighbors, n)
		}
	}
	return v
}

package hierarchy

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/sarchlab/archgen/config"
)

// Resolve links the levels of the model's template into a Graph. Every level
// the template names must have a spec in specs.
//
// Levels are resolved successor first, so the mode of a successor is known
// when its predecessor is resolved.
func Resolve(model SystemModel, specs map[string]config.CacheSpec) (*Graph, error) {
	tmpl, err := TemplateFor(model)
	if err != nil {
		return nil, err
	}

	order, err := resolutionOrder(tmpl)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Model:  model,
		byName: make(map[string]*Node, len(tmpl.Levels)),
	}

	for _, lt := range order {
		spec, ok := specs[lt.Name]
		if !ok {
			return nil, &config.MissingFieldError{Domain: lt.Name}
		}

		spec.Name = lt.Name

		n := &Node{
			CacheSpec: spec,
			TypeName:  lt.TypeName,
			Successor: lt.Successor,
		}

		switch lt.Successor.Kind {
		case KindMemory:
			n.SuccessorTypeName = MemoryTypeName
		case KindWalker:
			n.SuccessorTypeName = WalkerTypeName
		case KindLevel:
			next := g.byName[lt.Successor.Level]
			n.SuccessorTypeName = next.TypeName
			n.NextIsInvalidateOnHit = next.Mode.InvalidateOnHit()
		}

		g.Nodes = append(g.Nodes, n)
		g.byName[n.Name] = n
	}

	return g, nil
}

// resolutionOrder sorts the template so that every successor precedes its
// predecessors. Ties keep template order.
func resolutionOrder(tmpl Template) ([]LevelTemplate, error) {
	index := make(map[string]int64, len(tmpl.Levels))
	for i, l := range tmpl.Levels {
		index[l.Name] = int64(i)
	}

	dg := simple.NewDirectedGraph()
	for i := range tmpl.Levels {
		dg.AddNode(simple.Node(i))
	}

	for i, l := range tmpl.Levels {
		if l.Successor.Kind != KindLevel {
			continue
		}

		j, ok := index[l.Successor.Level]
		if !ok {
			return nil, fmt.Errorf("%s model: level %s forwards to unknown level %s",
				tmpl.Model, l.Name, l.Successor.Level)
		}

		if j == int64(i) {
			return nil, fmt.Errorf("%s model: level %s forwards to itself",
				tmpl.Model, l.Name)
		}

		// Edges point from a successor to the levels that depend on it.
		dg.SetEdge(dg.NewEdge(simple.Node(j), simple.Node(i)))
	}

	sorted, err := topo.SortStabilized(dg, byID)
	if err != nil {
		return nil, fmt.Errorf("%s model: levels form a cycle: %w",
			tmpl.Model, err)
	}

	order := make([]LevelTemplate, len(sorted))
	for i, n := range sorted {
		order[i] = tmpl.Levels[n.ID()]
	}

	return order, nil
}

func byID(nodes []graph.Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID() < nodes[j].ID()
	})
}

package hierarchy

import (
	"fmt"

	"github.com/sarchlab/archgen/config"
)

// SuccessorKind tells what a level forwards its misses to.
type SuccessorKind int

// Successor kinds.
const (
	// KindMemory forwards to the memory controller, the terminal node.
	KindMemory SuccessorKind = iota
	// KindLevel forwards to another cache or TLB level.
	KindLevel
	// KindWalker forwards to the page-table walker, which reads the page table
	// from memory.
	KindWalker
)

// Type names of the non-cache endpoints.
const (
	MemoryTypeName = "DRAM"
	WalkerTypeName = "PageTableWalker"
)

// Successor is a tagged reference to the next node of a level.
type Successor struct {
	Kind  SuccessorKind
	Level string
}

// ToMemory references the memory controller.
func ToMemory() Successor { return Successor{Kind: KindMemory} }

// ToWalker references the page-table walker.
func ToWalker() Successor { return Successor{Kind: KindWalker} }

// ToLevel references a sibling level by name.
func ToLevel(name string) Successor { return Successor{Kind: KindLevel, Level: name} }

func (s Successor) String() string {
	switch s.Kind {
	case KindMemory:
		return MemoryTypeName
	case KindWalker:
		return WalkerTypeName
	default:
		return s.Level
	}
}

// MarshalText lets serializers print successors by name.
func (s Successor) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Node is a resolved level.
type Node struct {
	config.CacheSpec

	TypeName  string
	Successor Successor

	// SuccessorTypeName is the emitted type name of the successor.
	SuccessorTypeName string

	// NextIsInvalidateOnHit is set when the successor is a level in
	// invalidate-on-hit mode.
	NextIsInvalidateOnHit bool
}

// Graph is the resolved hierarchy. Nodes are ordered so that every level
// comes after its successor.
type Graph struct {
	Model SystemModel
	Nodes []*Node

	byName map[string]*Node
}

// Node finds a level by name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Next follows the successor of a level. It returns false when the successor
// is not a level.
func (g *Graph) Next(n *Node) (*Node, bool) {
	if n.Successor.Kind != KindLevel {
		return nil, false
	}

	return g.Node(n.Successor.Level)
}

// PathToMemory lists the endpoints visited from the named level until the
// memory controller, including both ends. It fails if the walk revisits a
// node.
func (g *Graph) PathToMemory(name string) ([]string, error) {
	n, ok := g.Node(name)
	if !ok {
		return nil, fmt.Errorf("unknown level %q", name)
	}

	visited := map[string]bool{}
	path := []string{}

	for {
		if visited[n.Name] {
			return nil, fmt.Errorf("level %q is visited twice", n.Name)
		}

		visited[n.Name] = true
		path = append(path, n.Name)

		switch n.Successor.Kind {
		case KindMemory:
			return append(path, MemoryTypeName), nil
		case KindWalker:
			return append(path, WalkerTypeName, MemoryTypeName), nil
		}

		next, ok := g.Next(n)
		if !ok {
			return nil, fmt.Errorf("level %q forwards to unknown level %q",
				n.Name, n.Successor.Level)
		}

		n = next
	}
}

package model

import (
	"encoding/json"
	"sort"
)

// NodeType classifies a node in the intelligence graph.
type NodeType string

// Node types in the intelligence graph.
const (
	NodeUser          NodeType = "user"
	NodeIdentity      NodeType = "identity"
	NodeLocation      NodeType = "location"
	NodeOrganization  NodeType = "organization"
	NodeWebsite       NodeType = "website"
	NodeEmail         NodeType = "email"
	NodeDomain        NodeType = "domain"
	NodeRepository    NodeType = "repository"
	NodeSensitiveData NodeType = "sensitive_data"
	NodePlatform      NodeType = "platform"
)

// Edge labels used by the graph builder.
const (
	EdgeHasIdentity          = "has_identity"
	EdgeLocatedIn            = "located_in"
	EdgeAffiliatedWith       = "affiliated_with"
	EdgeAssociatedWith       = "associated_with"
	EdgeOwnsEmail            = "owns_email"
	EdgeOwnsRepository       = "owns_repository"
	EdgeContainsSecret       = "contains_secret"
	EdgeMemberOf             = "member_of"
	EdgeUsesEmail            = "uses_email"
	EdgeHasAccount           = "has_account"
	EdgeAssociatedWithDomain = "associated_with_domain"
)

// Node is a vertex in the intelligence graph.
type Node struct {
	// ID is a stable content-derived identifier. Re-adding a node with the
	// same ID merges attributes instead of duplicating the vertex.
	ID string `json:"id"`

	// Label is the human-readable value the node represents (a handle,
	// an email address, a city).
	Label string `json:"label"`

	// Type classifies the node.
	Type NodeType `json:"type"`

	// Attributes carries optional per-node metadata such as the source
	// platform or a demo-data marker.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Edge is a directed, labeled connection between two nodes.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`

	// Strength is set on ownership and affiliation edges, in [0, 1].
	// Direct observations sit near 1.0.
	Strength float64 `json:"strength,omitempty"`

	// Confidence is set on correlation edges, in [0, 1]. An edge carries
	// either Strength or Confidence, never both.
	Confidence float64 `json:"confidence,omitempty"`

	Attributes map[string]any `json:"attributes,omitempty"`
}

// IntelligenceGraph is the correlation graph built from a unified profile
// and its secondary artifacts. It is not safe for concurrent mutation.
//
// Design decision: nodes are stored in a map keyed by ID and edges are
// deduplicated on (from, to, label). Building the graph is therefore
// idempotent: running the builder twice over the same profile yields a
// graph equal to a single run.
type IntelligenceGraph struct {
	nodes map[string]*Node
	edges map[edgeKey]*Edge
}

type edgeKey struct {
	from, to, label string
}

// NewIntelligenceGraph creates an empty graph.
func NewIntelligenceGraph() *IntelligenceGraph {
	return &IntelligenceGraph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// AddNode inserts a node, or merges attributes into the existing node with
// the same ID. The first-seen label and type win on conflict.
func (g *IntelligenceGraph) AddNode(n Node) {
	if existing, ok := g.nodes[n.ID]; ok {
		for k, v := range n.Attributes {
			if existing.Attributes == nil {
				existing.Attributes = make(map[string]any)
			}
			existing.Attributes[k] = v
		}
		return
	}
	node := n
	g.nodes[n.ID] = &node
}

// AddEdge inserts a directed edge. An edge with the same (from, to, label)
// triple is replaced, keeping the higher strength of the two.
func (g *IntelligenceGraph) AddEdge(e Edge) {
	key := edgeKey{from: e.From, to: e.To, label: e.Label}
	if existing, ok := g.edges[key]; ok {
		if e.Strength > existing.Strength {
			existing.Strength = e.Strength
		}
		if e.Confidence > existing.Confidence {
			existing.Confidence = e.Confidence
		}
		for k, v := range e.Attributes {
			if existing.Attributes == nil {
				existing.Attributes = make(map[string]any)
			}
			existing.Attributes[k] = v
		}
		return
	}
	edge := e
	g.edges[key] = &edge
}

// Node returns the node with the given ID, or nil.
func (g *IntelligenceGraph) Node(id string) *Node {
	return g.nodes[id]
}

// HasNode reports whether a node with the given ID exists.
func (g *IntelligenceGraph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *IntelligenceGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *IntelligenceGraph) EdgeCount() int { return len(g.edges) }

// Nodes returns all nodes sorted by ID.
func (g *IntelligenceGraph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, *n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// Edges returns all edges sorted by (from, to, label).
func (g *IntelligenceGraph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, *e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Label < edges[j].Label
	})
	return edges
}

// NodesByType returns all nodes of the given type sorted by ID.
func (g *IntelligenceGraph) NodesByType(t NodeType) []Node {
	var nodes []Node
	for _, n := range g.nodes {
		if n.Type == t {
			nodes = append(nodes, *n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// EdgesFrom returns all edges leaving the given node, sorted.
func (g *IntelligenceGraph) EdgesFrom(id string) []Edge {
	var edges []Edge
	for _, e := range g.edges {
		if e.From == id {
			edges = append(edges, *e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Label < edges[j].Label
	})
	return edges
}

// graphExport is the stable serialized form of the graph.
type graphExport struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// MarshalJSON serializes the graph with nodes and edges in deterministic
// order so exports can be diffed and persisted.
func (g *IntelligenceGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphExport{Nodes: g.Nodes(), Edges: g.Edges()})
}

// UnmarshalJSON restores a graph from its exported form.
func (g *IntelligenceGraph) UnmarshalJSON(data []byte) error {
	var export graphExport
	if err := json.Unmarshal(data, &export); err != nil {
		return err
	}
	*g = *NewIntelligenceGraph()
	for _, n := range export.Nodes {
		g.AddNode(n)
	}
	for _, e := range export.Edges {
		g.AddEdge(e)
	}
	return nil
}

// Package graph builds the correlation graph from a unified profile and its
// secondary artifacts.
//
// Construction runs in three steps: the base graph (one user root plus a
// node and edge per profile entity), secondary expansion (repositories,
// secrets, organizations, emails, discovered accounts), and correlation
// (cross-platform links such as shared email domains). Node identifiers are
// content hashes of (type, normalized value), so rebuilding the graph from
// the same input yields the same ids.
//
// Correlation strategies are pluggable through the Policy interface. The
// default policy set emits shared-domain edges and evaluates name and bio
// similarity without emitting edges for them; a custom policy can turn the
// similarity signals into edges.
package graph

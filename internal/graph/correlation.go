package graph

import (
	"log/slog"

	"github.com/profilescan/profilescan/internal/model"
)

// domainConfidence is the confidence assigned to shared-domain correlation
// edges. Domain association is inferred, not observed, so it sits below the
// direct-observation strengths.
const domainConfidence = 0.7

// Policy is a correlation strategy applied after the base graph and
// secondary expansion are in place. Policies add correlation edges (or
// choose not to) based on cross-platform signals in the profile.
type Policy interface {
	// Name identifies the policy in logs.
	Name() string

	// Apply inspects the profile and may add nodes and edges to the graph.
	Apply(g *model.IntelligenceGraph, profile *model.UnifiedProfile)
}

// DefaultPolicies returns the standard policy set: shared-domain
// correlation plus similarity evaluation.
func DefaultPolicies(logger *slog.Logger) []Policy {
	return []Policy{
		&DomainPolicy{Logger: logger},
		&SimilarityPolicy{Logger: logger},
	}
}

// DomainPolicy links identities through shared email domains. When the
// profile's emails yield a domain and more than one identity exists, every
// identity is connected to a single domain node.
//
// The rule treats all identities as candidates for every domain. That is a
// deliberate over-approximation: without per-identity email evidence there
// is no way to tell which identities actually use the domain, and the
// conservative choice for an exposure report is to link all of them at
// reduced confidence rather than miss a link.
type DomainPolicy struct {
	Logger *slog.Logger
}

// Name returns the policy name.
func (p *DomainPolicy) Name() string { return "shared-domain" }

// Apply adds one domain node per email domain and a correlation edge from
// every identity node to it. Nothing happens with fewer than two identity
// nodes since a single identity cannot be cross-correlated.
func (p *DomainPolicy) Apply(g *model.IntelligenceGraph, profile *model.UnifiedProfile) {
	identities := g.NodesByType(model.NodeIdentity)
	if len(identities) < 2 {
		return
	}

	for _, domain := range profile.EmailDomains() {
		domainID := NodeID(model.NodeDomain, domain)
		g.AddNode(model.Node{ID: domainID, Label: domain, Type: model.NodeDomain})

		for _, identity := range identities {
			g.AddEdge(model.Edge{
				From:       identity.ID,
				To:         domainID,
				Label:      model.EdgeAssociatedWithDomain,
				Confidence: domainConfidence,
			})
		}

		if p.Logger != nil {
			p.Logger.Debug("domain correlation added",
				"domain", domain, "identities", len(identities))
		}
	}
}

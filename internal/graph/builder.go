package graph

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/profilescan/profilescan/internal/model"
)

// Builder constructs correlation graphs.
type Builder struct {
	logger   *slog.Logger
	policies []Policy
	demoData bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for build diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithPolicies replaces the default correlation policy set.
func WithPolicies(policies ...Policy) Option {
	return func(b *Builder) {
		b.policies = policies
	}
}

// WithDemoData enables synthetic demonstration nodes when the real graph is
// sparse. Demo nodes carry a "demo" attribute and are ignored by scoring.
func WithDemoData(enabled bool) Option {
	return func(b *Builder) {
		b.demoData = enabled
	}
}

// NewBuilder creates a Builder with the default correlation policies.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.policies == nil {
		b.policies = DefaultPolicies(b.logger)
	}
	return b
}

// Build constructs the correlation graph for the profile and its secondary
// artifacts. Artifacts may be nil. Build never fails: bad or empty inputs
// produce a smaller graph, not an error.
//
// Every node added here is connected back to the user root, either directly
// or through another reachable node, so the exported graph is always
// connected through the root.
func (b *Builder) Build(profile *model.UnifiedProfile, artifacts *model.SecondaryArtifacts) *model.IntelligenceGraph {
	g := model.NewIntelligenceGraph()

	g.AddNode(model.Node{
		ID:    UserNodeID,
		Label: "Target User",
		Type:  model.NodeUser,
	})

	if profile != nil {
		b.addBaseGraph(g, profile)
	}
	if artifacts != nil {
		b.addSecondary(g, artifacts)
	}
	if profile != nil {
		for _, policy := range b.policies {
			policy.Apply(g, profile)
		}
	}
	if b.demoData {
		b.inflateSparse(g)
	}

	b.logger.Debug("graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g
}

// DemoData reports whether the builder inflates sparse graphs with
// demonstration nodes.
func (b *Builder) DemoData() bool { return b.demoData }

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// addBaseGraph adds one node and one edge per profile entity. Empty and
// whitespace-only values never become nodes.
func (b *Builder) addBaseGraph(g *model.IntelligenceGraph, profile *model.UnifiedProfile) {
	for platform, handle := range profile.Identities {
		if strings.TrimSpace(handle) == "" {
			continue
		}
		id := NodeID(model.NodeIdentity, platform+":"+handle)
		g.AddNode(model.Node{
			ID:    id,
			Label: handle,
			Type:  model.NodeIdentity,
			Attributes: map[string]any{
				"platform": platform,
			},
		})
		g.AddEdge(model.Edge{From: UserNodeID, To: id, Label: model.EdgeHasIdentity, Strength: 1.0})
	}

	addSet := func(values model.StringSet, t model.NodeType, label string) {
		for _, v := range values.Values() {
			if strings.TrimSpace(v) == "" {
				continue
			}
			id := NodeID(t, v)
			g.AddNode(model.Node{ID: id, Label: v, Type: t})
			g.AddEdge(model.Edge{From: UserNodeID, To: id, Label: label, Strength: 1.0})
		}
	}

	addSet(profile.Locations, model.NodeLocation, model.EdgeLocatedIn)
	addSet(profile.Organizations, model.NodeOrganization, model.EdgeAffiliatedWith)
	addSet(profile.Websites, model.NodeWebsite, model.EdgeAssociatedWith)
	addSet(profile.Emails, model.NodeEmail, model.EdgeOwnsEmail)
}

// Secondary expansion edge strengths. Repositories and their secrets are
// near-certain ownership; discovered accounts are the least certain since
// they come from handle matching rather than direct observation.
const (
	strengthRepository = 0.9
	strengthSecret     = 0.95
	strengthOrg        = 0.85
	strengthEmail      = 0.8
	strengthAccount    = 0.75
)

// addSecondary expands the graph with repositories, secrets, organizations,
// emails, and discovered platform accounts.
func (b *Builder) addSecondary(g *model.IntelligenceGraph, artifacts *model.SecondaryArtifacts) {
	repoNodes := make(map[string]string)

	for _, repo := range artifacts.Repositories {
		if strings.TrimSpace(repo.Name) == "" {
			continue
		}
		id := NodeID(model.NodeRepository, repo.Name)
		attrs := map[string]any{
			"stars": repo.Stars,
		}
		if repo.Language != "" {
			attrs["language"] = repo.Language
		}
		if repo.URL != "" {
			attrs["url"] = repo.URL
		}
		if repo.Description != "" {
			attrs["description"] = repo.Description
		}
		g.AddNode(model.Node{ID: id, Label: repo.Name, Type: model.NodeRepository, Attributes: attrs})
		g.AddEdge(model.Edge{From: UserNodeID, To: id, Label: model.EdgeOwnsRepository, Strength: strengthRepository})
		repoNodes[repo.Name] = id
	}

	for _, secret := range artifacts.Secrets {
		if strings.TrimSpace(secret.Kind) == "" {
			continue
		}
		id := NodeID(model.NodeSensitiveData, secret.Kind+":"+secret.Source)
		g.AddNode(model.Node{
			ID:    id,
			Label: secret.Kind,
			Type:  model.NodeSensitiveData,
			Attributes: map[string]any{
				"match":  secret.Match,
				"source": secret.Source,
			},
		})
		// Attach the secret to the repository it was found in when the
		// source names one; otherwise hang it off the root. The secret
		// scanner emits the repository name verbatim as the source, so
		// an exact match is tried first. Substring fallback walks repo
		// names in sorted order to keep the attachment deterministic.
		from := UserNodeID
		if repoID, ok := repoNodes[secret.Source]; ok {
			from = repoID
		} else {
			for _, name := range sortedKeys(repoNodes) {
				if strings.Contains(secret.Source, name) {
					from = repoNodes[name]
					break
				}
			}
		}
		g.AddEdge(model.Edge{From: from, To: id, Label: model.EdgeContainsSecret, Strength: strengthSecret})
	}

	for _, email := range artifacts.Emails {
		if strings.TrimSpace(email) == "" {
			continue
		}
		id := NodeID(model.NodeEmail, email)
		g.AddNode(model.Node{ID: id, Label: email, Type: model.NodeEmail})
		g.AddEdge(model.Edge{From: UserNodeID, To: id, Label: model.EdgeUsesEmail, Strength: strengthEmail})
	}

	for _, org := range artifacts.Organizations {
		if strings.TrimSpace(org.Name) == "" {
			continue
		}
		id := NodeID(model.NodeOrganization, org.Name)
		attrs := map[string]any{}
		if org.Source != "" {
			attrs["source"] = org.Source
		}
		g.AddNode(model.Node{ID: id, Label: org.Name, Type: model.NodeOrganization, Attributes: attrs})
		g.AddEdge(model.Edge{From: UserNodeID, To: id, Label: model.EdgeMemberOf, Strength: strengthOrg})
	}

	for platform, handle := range artifacts.Accounts {
		if strings.TrimSpace(handle) == "" {
			continue
		}
		id := NodeID(model.NodePlatform, platform+":"+handle)
		g.AddNode(model.Node{
			ID:    id,
			Label: handle,
			Type:  model.NodePlatform,
			Attributes: map[string]any{
				"platform": platform,
			},
		})
		g.AddEdge(model.Edge{From: UserNodeID, To: id, Label: model.EdgeHasAccount, Strength: strengthAccount})
	}
}

// demoMinNodes is the node count below which demo inflation kicks in.
const demoMinNodes = 8

// inflateSparse adds synthetic repository nodes when the real graph is too
// sparse to demonstrate the visualization. Every synthetic node is tagged
// with a "demo" attribute; scoring and tracker detection never read these
// nodes.
func (b *Builder) inflateSparse(g *model.IntelligenceGraph) {
	if g.NodeCount() >= demoMinNodes {
		return
	}

	samples := []model.Repository{
		{Name: "ml-pipeline-demo", Description: "Machine Learning Pipeline (DEMO)", Language: "Python", Stars: 120},
		{Name: "fullstack-app-demo", Description: "Full-Stack Web Application (DEMO)", Language: "JavaScript", Stars: 64},
		{Name: "dsa-solutions-demo", Description: "Data Structures & Algorithms (DEMO)", Language: "C++", Stars: 87},
	}

	for _, repo := range samples {
		id := NodeID(model.NodeRepository, repo.Name)
		g.AddNode(model.Node{
			ID:    id,
			Label: repo.Name,
			Type:  model.NodeRepository,
			Attributes: map[string]any{
				"demo":        true,
				"description": repo.Description,
				"language":    repo.Language,
				"stars":       repo.Stars,
			},
		})
		g.AddEdge(model.Edge{
			From:       UserNodeID,
			To:         id,
			Label:      model.EdgeOwnsRepository,
			Strength:   strengthRepository,
			Attributes: map[string]any{"demo": true},
		})
	}

	b.logger.Debug("sparse graph inflated with demo repositories", "count", len(samples))
}

package graph

import (
	"encoding/json"
	"testing"

	"github.com/profilescan/profilescan/internal/model"
)

func sampleProfile() *model.UnifiedProfile {
	p := model.NewUnifiedProfile()
	p.Identities["github"] = "jdoe"
	p.Identities["twitter"] = "jdoe"
	p.PersonalInfo["name"] = "John Doe"
	p.Locations.Add("Berlin")
	p.Organizations.Add("Corp")
	p.Websites.Add("https://jdoe.example")
	p.Emails.Add("jdoe@corp.example")
	return p
}

func TestBuildBaseGraph(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	g := b.Build(sampleProfile(), nil)

	users := g.NodesByType(model.NodeUser)
	if len(users) != 1 || users[0].ID != UserNodeID {
		t.Fatalf("expected exactly one user root, got %v", users)
	}

	if got := len(g.NodesByType(model.NodeIdentity)); got != 2 {
		t.Errorf("identity nodes = %d, want 2", got)
	}
	if got := len(g.NodesByType(model.NodeLocation)); got != 1 {
		t.Errorf("location nodes = %d, want 1", got)
	}
	if got := len(g.NodesByType(model.NodeEmail)); got != 1 {
		t.Errorf("email nodes = %d, want 1", got)
	}

	// Base edges are direct observations.
	for _, e := range g.EdgesFrom(UserNodeID) {
		if e.Strength != 1.0 {
			t.Errorf("base edge %s has strength %v, want 1.0", e.Label, e.Strength)
		}
	}
}

func TestBuildSkipsEmptyValues(t *testing.T) {
	t.Parallel()

	p := model.NewUnifiedProfile()
	p.Identities["github"] = "   "
	p.Locations.Add(" ")

	b := NewBuilder()
	g := b.Build(p, nil)

	if got := len(g.NodesByType(model.NodeIdentity)); got != 0 {
		t.Errorf("whitespace identity became a node")
	}
	if got := len(g.NodesByType(model.NodeLocation)); got != 0 {
		t.Errorf("whitespace location became a node")
	}
}

func TestBuildIdempotent(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	profile := sampleProfile()
	artifacts := &model.SecondaryArtifacts{
		Repositories: []model.Repository{{Name: "proj", Stars: 4, Language: "Go"}},
		Accounts:     map[string]string{"gitlab": "jdoe"},
	}

	first, err := json.Marshal(b.Build(profile, artifacts))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(b.Build(profile, artifacts))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("building twice from identical input produced different graphs")
	}
}

func TestBuildConnectivity(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	artifacts := &model.SecondaryArtifacts{
		Repositories: []model.Repository{
			{Name: "proj", Description: "demo project", Stars: 4},
		},
		Secrets: []model.Secret{
			{Kind: "api_key", Match: "api_key = \"ab...", Source: "github repo proj description"},
		},
		Organizations: []model.Organization{{Name: "Corp", Source: "github"}},
		Accounts:      map[string]string{"gitlab": "jdoe"},
	}
	g := b.Build(sampleProfile(), artifacts)

	// Every non-root node must be reachable from the root over undirected
	// edges.
	adjacent := make(map[string][]string)
	for _, e := range g.Edges() {
		adjacent[e.From] = append(adjacent[e.From], e.To)
		adjacent[e.To] = append(adjacent[e.To], e.From)
	}

	visited := map[string]bool{UserNodeID: true}
	queue := []string{UserNodeID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacent[current] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, n := range g.Nodes() {
		if !visited[n.ID] {
			t.Errorf("node %s (%s) is not reachable from the root", n.ID, n.Type)
		}
	}
}

func TestBuildSecondaryExpansion(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	artifacts := &model.SecondaryArtifacts{
		Repositories: []model.Repository{{Name: "proj", Stars: 10}},
		Secrets: []model.Secret{
			{Kind: "aws_access_key", Match: "aws_access_k...", Source: "repo proj file config.js"},
		},
		Organizations: []model.Organization{{Name: "OpenOrg"}},
		Emails:        []string{"commits@corp.example"},
		Accounts:      map[string]string{"gitlab": "jdoe"},
	}
	g := b.Build(sampleProfile(), artifacts)

	wantStrengths := map[string]float64{
		model.EdgeOwnsRepository: 0.9,
		model.EdgeContainsSecret: 0.95,
		model.EdgeMemberOf:       0.85,
		model.EdgeUsesEmail:      0.8,
		model.EdgeHasAccount:     0.75,
	}
	seen := make(map[string]bool)
	for _, e := range g.Edges() {
		if want, ok := wantStrengths[e.Label]; ok {
			seen[e.Label] = true
			if e.Strength != want {
				t.Errorf("edge %s strength = %v, want %v", e.Label, e.Strength, want)
			}
		}
	}
	for label := range wantStrengths {
		if !seen[label] {
			t.Errorf("expected an edge with label %s", label)
		}
	}

	// The secret names its repository, so it must hang off the repo node.
	repoID := NodeID(model.NodeRepository, "proj")
	secretEdges := g.EdgesFrom(repoID)
	found := false
	for _, e := range secretEdges {
		if e.Label == model.EdgeContainsSecret {
			found = true
		}
	}
	if !found {
		t.Error("secret edge does not originate from its repository node")
	}
}

func TestSecretAttachmentDeterministic(t *testing.T) {
	t.Parallel()

	// Two repositories where one name is a substring of the other. The
	// scanner emits the repository name verbatim as the source, so the
	// secret must attach to the exact match every build.
	artifacts := &model.SecondaryArtifacts{
		Repositories: []model.Repository{
			{Name: "proj"},
			{Name: "proj-utils"},
		},
		Secrets: []model.Secret{
			{Kind: "api_key", Match: "api_key = ab...", Source: "proj"},
		},
	}

	b := NewBuilder()
	wantFrom := NodeID(model.NodeRepository, "proj")

	for i := 0; i < 20; i++ {
		g := b.Build(sampleProfile(), artifacts)
		for _, e := range g.Edges() {
			if e.Label != model.EdgeContainsSecret {
				continue
			}
			if e.From != wantFrom {
				t.Fatalf("secret attached to %s, want %s", e.From, wantFrom)
			}
		}
	}
}

func TestDomainCorrelation(t *testing.T) {
	t.Parallel()

	t.Run("two identities get domain edges", func(t *testing.T) {
		t.Parallel()

		g := NewBuilder().Build(sampleProfile(), nil)

		domains := g.NodesByType(model.NodeDomain)
		if len(domains) != 1 || domains[0].Label != "corp.example" {
			t.Fatalf("domain nodes = %v", domains)
		}

		count := 0
		for _, e := range g.Edges() {
			if e.Label == model.EdgeAssociatedWithDomain {
				count++
				if e.Confidence != 0.7 {
					t.Errorf("domain edge confidence = %v, want 0.7", e.Confidence)
				}
				if e.Strength != 0 {
					t.Errorf("correlation edge must not carry strength")
				}
			}
		}
		if count != 2 {
			t.Errorf("domain edges = %d, want one per identity", count)
		}
	})

	t.Run("single identity gets no domain node", func(t *testing.T) {
		t.Parallel()

		p := model.NewUnifiedProfile()
		p.Identities["github"] = "jdoe"
		p.Emails.Add("jdoe@corp.example")

		g := NewBuilder().Build(p, nil)
		if len(g.NodesByType(model.NodeDomain)) != 0 {
			t.Error("domain correlation requires more than one identity")
		}
	})
}

func TestDemoDataInflation(t *testing.T) {
	t.Parallel()

	t.Run("sparse graph is inflated with tagged nodes", func(t *testing.T) {
		t.Parallel()

		p := model.NewUnifiedProfile()
		p.Identities["github"] = "jdoe"

		g := NewBuilder(WithDemoData(true)).Build(p, nil)

		repos := g.NodesByType(model.NodeRepository)
		if len(repos) == 0 {
			t.Fatal("expected demo repositories in sparse graph")
		}
		for _, n := range repos {
			if n.Attributes["demo"] != true {
				t.Errorf("demo node %s is not tagged", n.ID)
			}
		}
	})

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()

		p := model.NewUnifiedProfile()
		p.Identities["github"] = "jdoe"

		g := NewBuilder().Build(p, nil)
		if len(g.NodesByType(model.NodeRepository)) != 0 {
			t.Error("demo inflation must be opt-in")
		}
	})
}

func TestNodeIDStability(t *testing.T) {
	t.Parallel()

	a := NodeID(model.NodeEmail, "JDoe@Corp.Example ")
	b := NodeID(model.NodeEmail, "jdoe@corp.example")
	if a != b {
		t.Errorf("normalization failed: %q != %q", a, b)
	}

	c := NodeID(model.NodeIdentity, "jdoe@corp.example")
	if a == c {
		t.Error("different node types must produce different ids")
	}
}

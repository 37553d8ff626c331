package risk

import (
	"testing"

	"github.com/profilescan/profilescan/internal/model"
)

func TestThreatMatrix(t *testing.T) {
	t.Parallel()

	t.Run("empty profile", func(t *testing.T) {
		t.Parallel()

		m := ThreatMatrix(model.NewUnifiedProfile(), nil)
		if m.IdentityReconstruction != 0 {
			t.Errorf("IdentityReconstruction = %v, want 0", m.IdentityReconstruction)
		}
		if m.Phishing != 0 {
			t.Errorf("Phishing = %v, want 0", m.Phishing)
		}
		if m.AccountTakeover != 0 {
			t.Errorf("AccountTakeover = %v, want 0", m.AccountTakeover)
		}
		// Broker exposure starts at the base rate even with nothing found.
		if m.DataBrokerExposure != 50 {
			t.Errorf("DataBrokerExposure = %v, want 50", m.DataBrokerExposure)
		}
	})

	t.Run("nil profile is treated as empty", func(t *testing.T) {
		t.Parallel()

		m := ThreatMatrix(nil, nil)
		if m.DataBrokerExposure != 50 {
			t.Errorf("DataBrokerExposure = %v, want 50", m.DataBrokerExposure)
		}
	})

	t.Run("rich profile", func(t *testing.T) {
		t.Parallel()

		p := model.NewUnifiedProfile()
		p.Emails.Add("jdoe@corp.example")
		p.Phones.Add("+1 555 0100")
		p.Locations.Add("Berlin")
		p.Organizations.Add("Corp")
		p.Websites.Add("https://jdoe.dev")
		p.PersonalInfo["bio"] = "Builder of things"
		p.Identities["github"] = "jdoe"
		p.Identities["twitter"] = "jdoe"
		p.Identities["reddit"] = "jdoe"

		artifacts := &model.SecondaryArtifacts{
			Repositories: []model.Repository{{Name: "proj"}},
			Secrets: []model.Secret{
				{Kind: "api_key", Source: "proj"},
				{Kind: "aws_access_key", Source: "proj"},
			},
		}

		m := ThreatMatrix(p, artifacts)

		// 10+10+10+10 + 3*8 + 10 + 10 + 5 = 79
		if m.IdentityReconstruction != 79 {
			t.Errorf("IdentityReconstruction = %v, want 79", m.IdentityReconstruction)
		}
		// 30 + 20 + 15 + min(15, 20) = 80
		if m.Phishing != 80 {
			t.Errorf("Phishing = %v, want 80", m.Phishing)
		}
		// min(30, 40) + min(24, 30) = 54
		if m.AccountTakeover != 54 {
			t.Errorf("AccountTakeover = %v, want 54", m.AccountTakeover)
		}
		// 50 + 20 + 15 + 10 = 95
		if m.DataBrokerExposure != 95 {
			t.Errorf("DataBrokerExposure = %v, want 95", m.DataBrokerExposure)
		}
	})

	t.Run("secret count caps takeover contribution", func(t *testing.T) {
		t.Parallel()

		artifacts := &model.SecondaryArtifacts{
			Secrets: make([]model.Secret, 10),
		}
		m := ThreatMatrix(model.NewUnifiedProfile(), artifacts)
		if m.AccountTakeover != 40 {
			t.Errorf("AccountTakeover = %v, want 40", m.AccountTakeover)
		}
	})

	t.Run("identity count caps reconstruction", func(t *testing.T) {
		t.Parallel()

		p := model.NewUnifiedProfile()
		for _, platform := range []string{"github", "twitter", "reddit", "instagram", "youtube", "facebook", "linkedin", "email", "mastodon", "bluesky", "threads", "tiktok", "twitch"} {
			p.Identities[platform] = "jdoe"
		}
		m := ThreatMatrix(p, nil)
		if m.IdentityReconstruction != 100 {
			t.Errorf("IdentityReconstruction = %v, want 100", m.IdentityReconstruction)
		}
	})
}

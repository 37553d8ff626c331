package tracker

import (
	"testing"

	"github.com/profilescan/profilescan/internal/model"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("empty profile matches nothing", func(t *testing.T) {
		t.Parallel()

		d := New()
		if got := d.Detect(model.NewUnifiedProfile()); len(got) != 0 {
			t.Errorf("Detect() returned %d matches, want 0", len(got))
		}
	})

	t.Run("nil profile matches nothing", func(t *testing.T) {
		t.Parallel()

		d := New()
		if got := d.Detect(nil); got != nil {
			t.Errorf("Detect(nil) = %v, want nil", got)
		}
	})

	t.Run("platform matches raise confidence per platform", func(t *testing.T) {
		t.Parallel()

		p := model.NewUnifiedProfile()
		p.Identities["facebook"] = "jdoe"
		p.Identities["instagram"] = "jdoe.gram"
		p.Identities["twitter"] = "jdoe"
		p.Identities["youtube"] = "JDoeChannel"
		p.Identities["linkedin"] = "john-doe"

		d := New()
		matches := d.Detect(p)

		byEntity := make(map[string]model.TrackerMatch, len(matches))
		for _, m := range matches {
			byEntity[m.Entity] = m
		}

		tests := []struct {
			entity     string
			platforms  []string
			confidence float64
		}{
			{entity: "facebook", platforms: []string{"facebook", "instagram"}, confidence: 0.95},
			{entity: "google", platforms: []string{"youtube"}, confidence: 0.95},
			{entity: "microsoft", platforms: []string{"linkedin"}, confidence: 0.85},
			{entity: "x_corp", platforms: []string{"twitter"}, confidence: 0.75},
		}
		for _, tt := range tests {
			m, ok := byEntity[tt.entity]
			if !ok {
				t.Errorf("entity %s not matched", tt.entity)
				continue
			}
			if m.Confidence != tt.confidence {
				t.Errorf("%s confidence = %v, want %v", tt.entity, m.Confidence, tt.confidence)
			}
			if len(m.Platforms) != len(tt.platforms) {
				t.Errorf("%s platforms = %v, want %v", tt.entity, m.Platforms, tt.platforms)
				continue
			}
			for i, p := range tt.platforms {
				if m.Platforms[i] != p {
					t.Errorf("%s platforms = %v, want %v", tt.entity, m.Platforms, tt.platforms)
					break
				}
			}
			if len(m.Methods) == 0 {
				t.Errorf("%s has no methods", tt.entity)
			}
		}

		if _, ok := byEntity["data_brokers"]; ok {
			t.Error("data_brokers matched without email exposure")
		}
	})

	t.Run("confidence never exceeds one", func(t *testing.T) {
		t.Parallel()

		p := model.NewUnifiedProfile()
		p.Identities["gmail"] = "jdoe"
		p.Identities["youtube"] = "jdoe"
		p.Identities["google+"] = "jdoe"

		d := New()
		matches := d.Detect(p)
		if len(matches) != 1 {
			t.Fatalf("Detect() returned %d matches, want 1", len(matches))
		}
		if matches[0].Confidence != 1.0 {
			t.Errorf("confidence = %v, want 1.0", matches[0].Confidence)
		}
	})

	t.Run("email exposure implies data brokers", func(t *testing.T) {
		t.Parallel()

		p := model.NewUnifiedProfile()
		p.Emails.Add("jdoe@corp.example")

		d := New()
		matches := d.Detect(p)
		if len(matches) != 1 {
			t.Fatalf("Detect() returned %d matches, want 1", len(matches))
		}
		m := matches[0]
		if m.Entity != "data_brokers" {
			t.Errorf("entity = %q, want data_brokers", m.Entity)
		}
		if m.Confidence != 0.6 {
			t.Errorf("confidence = %v, want 0.6", m.Confidence)
		}
		if len(m.Platforms) != 0 {
			t.Errorf("platforms = %v, want empty", m.Platforms)
		}
	})

	t.Run("deterministic order", func(t *testing.T) {
		t.Parallel()

		p := model.NewUnifiedProfile()
		p.Identities["youtube"] = "jdoe"
		p.Identities["twitter"] = "jdoe"
		p.Emails.Add("jdoe@corp.example")

		d := New()
		first := d.Detect(p)
		second := d.Detect(p)
		if len(first) != len(second) {
			t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].Entity != second[i].Entity {
				t.Errorf("order differs at %d: %s vs %s", i, first[i].Entity, second[i].Entity)
			}
		}
		if first[len(first)-1].Entity != "data_brokers" {
			t.Errorf("last entity = %s, want data_brokers", first[len(first)-1].Entity)
		}
	})
}

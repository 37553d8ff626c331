package risk

import (
	"math"

	"github.com/profilescan/profilescan/internal/model"
)

// ThreatMatrix translates the scan's signals into concrete attack scenario
// likelihoods, each a percentage in [0, 100]. Unlike the risk score, these
// are scenario-specific reads of the same data, meant for the report's
// threat section rather than for severity bucketing.
func ThreatMatrix(profile *model.UnifiedProfile, artifacts *model.SecondaryArtifacts) *model.ThreatMatrix {
	if profile == nil {
		profile = model.NewUnifiedProfile()
	}

	return &model.ThreatMatrix{
		IdentityReconstruction: identityReconstruction(profile, artifacts),
		Phishing:               phishing(profile),
		AccountTakeover:        accountTakeover(profile, artifacts),
		DataBrokerExposure:     dataBrokerExposure(profile),
	}
}

// identityReconstruction estimates what share of the subject's identity an
// attacker can reassemble from public data. Each data category contributes
// a fixed number of points against a 100-point identity.
func identityReconstruction(profile *model.UnifiedProfile, artifacts *model.SecondaryArtifacts) float64 {
	points := 0
	if len(profile.Emails) > 0 {
		points += 10
	}
	if len(profile.Phones) > 0 {
		points += 10
	}
	if len(profile.Locations) > 0 {
		points += 10
	}
	if len(profile.Organizations) > 0 {
		points += 10
	}
	points += len(profile.Identities) * 8
	if artifacts != nil && len(artifacts.Repositories) > 0 {
		points += 10
	}
	if len(profile.Websites) > 0 {
		points += 10
	}
	if profile.PersonalInfo["bio"] != "" {
		points += 5
	}

	return round1(math.Min(float64(points), 100))
}

// phishing estimates the likelihood of a credible targeted phishing
// attempt. Email exposure dominates; workplace and location make the lure
// specific; platform spread widens the delivery channels.
func phishing(profile *model.UnifiedProfile) float64 {
	score := 0.0
	if len(profile.Emails) > 0 {
		score += 30
	}
	if len(profile.Organizations) > 0 {
		score += 20
	}
	if len(profile.Locations) > 0 {
		score += 15
	}
	score += math.Min(float64(len(profile.Identities)*5), 20)

	return round1(math.Min(score, 100))
}

// accountTakeover estimates the likelihood of account compromise from
// exposed secrets and account spread.
func accountTakeover(profile *model.UnifiedProfile, artifacts *model.SecondaryArtifacts) float64 {
	score := 0.0
	if artifacts != nil {
		score += math.Min(float64(len(artifacts.Secrets)*15), 40)
	}
	score += math.Min(float64(len(profile.Identities)*8), 30)

	return round1(math.Min(score, 100))
}

// dataBrokerExposure estimates how likely commercial data brokers already
// hold the subject's aggregated data. The base rate is high: essentially
// everyone with any online presence appears in broker databases.
func dataBrokerExposure(profile *model.UnifiedProfile) float64 {
	score := 50.0
	if len(profile.Emails) > 0 {
		score += 20
	}
	if len(profile.Phones) > 0 {
		score += 15
	}
	if len(profile.Locations) > 0 {
		score += 10
	}

	return round1(math.Min(score, 100))
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

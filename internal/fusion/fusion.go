package fusion

import (
	"log/slog"
	"sort"
	"time"

	"github.com/profilescan/profilescan/internal/model"
)

// Fuser merges platform payloads into unified profiles.
type Fuser struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Fuser.
type Option func(*Fuser)

// WithLogger sets the logger for fusion diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fuser) {
		f.logger = logger
	}
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(f *Fuser) {
		f.now = now
	}
}

// New creates a Fuser.
func New(opts ...Option) *Fuser {
	f := &Fuser{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fuse merges the payloads into a unified profile, processing platforms in
// the canonical fusion order. It returns the profile together with the list
// of fields it had to skip.
//
// Merge semantics are additive-only: set-typed fields (locations, websites,
// organizations, emails) accumulate across platforms, numeric metrics live
// under platform-prefixed keys so they never collide, and free-text fields
// (name, bio) are last-write-wins in fusion order.
//
// CollectedAt is stamped only when at least one payload was processed. An
// empty input yields an empty profile with a zero timestamp, which the risk
// scorer treats as "age unknown" rather than "fresh".
func (f *Fuser) Fuse(payloads []model.PlatformPayload) (*model.UnifiedProfile, []model.Degradation) {
	profile := model.NewUnifiedProfile()
	var degradations []model.Degradation

	ordered := make([]model.PlatformPayload, len(payloads))
	copy(ordered, payloads)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Platform.FusionRank() < ordered[j].Platform.FusionRank()
	})

	fused := 0
	for i := range ordered {
		p := &ordered[i]
		var d []model.Degradation
		switch p.Platform {
		case model.PlatformGitHub:
			d = fuseGitHub(profile, p)
		case model.PlatformLinkedIn:
			d = fuseLinkedIn(profile, p)
		case model.PlatformTwitter:
			d = fuseTwitter(profile, p)
		case model.PlatformReddit:
			d = fuseReddit(profile, p)
		case model.PlatformFacebook:
			d = fuseFacebook(profile, p)
		case model.PlatformInstagram:
			d = fuseInstagram(profile, p)
		case model.PlatformYouTube:
			d = fuseYouTube(profile, p)
		case model.PlatformEmail:
			d = fuseEmail(profile, p)
		default:
			f.logger.Debug("skipping payload from unknown platform", "platform", p.Platform.String())
			continue
		}
		fused++
		degradations = append(degradations, d...)
	}

	for _, d := range degradations {
		f.logger.Debug("fusion degraded",
			"platform", d.Platform.String(), "field", d.Field, "reason", d.Reason)
	}

	if fused > 0 {
		profile.CollectedAt = f.now()
	}
	return profile, degradations
}

// collector gathers degradations while extracting fields from one payload.
type collector struct {
	payload *model.PlatformPayload
	degs    []model.Degradation
}

func (c *collector) degrade(field, reason string) {
	c.degs = append(c.degs, model.Degradation{
		Platform: c.payload.Platform,
		Field:    field,
		Reason:   reason,
	})
}

// str returns the named profile field, recording a degradation when the
// field is present with a non-string value. Missing optional fields are
// silent; identity-bearing fields use strRequired instead.
func (c *collector) str(field string) (string, bool) {
	v, present, malformed := c.payload.ProfileString(field)
	if malformed {
		c.degrade(field, model.DegradationMalformed)
		return "", false
	}
	return v, present
}

// strRequired is like str but also records missing fields. Used for the
// fields a payload is pointless without, such as the platform handle.
func (c *collector) strRequired(field string) (string, bool) {
	v, present, malformed := c.payload.ProfileString(field)
	if malformed {
		c.degrade(field, model.DegradationMalformed)
		return "", false
	}
	if !present {
		c.degrade(field, model.DegradationMissing)
		return "", false
	}
	return v, true
}

// metric stores the named profile counter under key. Missing counters
// default to zero to match the collection contract.
func (c *collector) metric(profile *model.UnifiedProfile, field, key string) {
	v, _, malformed := c.payload.ProfileInt(field)
	if malformed {
		c.degrade(field, model.DegradationMalformed)
		v = 0
	}
	profile.SocialMetrics[key] = v
}

func fuseGitHub(profile *model.UnifiedProfile, p *model.PlatformPayload) []model.Degradation {
	c := &collector{payload: p}

	if login, ok := c.strRequired("login"); ok && login != "" {
		profile.Identities["github"] = login
	}
	if name, ok := c.str("name"); ok && name != "" {
		profile.PersonalInfo["name"] = name
	}
	if email, ok := c.str("email"); ok && email != "" {
		profile.Emails.Add(email)
		profile.Identities["email"] = email
	}
	if bio, ok := c.str("bio"); ok && bio != "" {
		profile.PersonalInfo["bio"] = bio
	}
	if location, ok := c.str("location"); ok && location != "" {
		profile.Locations.Add(location)
	}
	if blog, ok := c.str("blog"); ok && blog != "" {
		profile.Websites.Add(blog)
	}
	if company, ok := c.str("company"); ok && company != "" {
		profile.Organizations.Add(company)
	}

	c.metric(profile, "followers", "github_followers")
	c.metric(profile, "public_repos", "github_public_repos")
	return c.degs
}

func fuseLinkedIn(profile *model.UnifiedProfile, p *model.PlatformPayload) []model.Degradation {
	c := &collector{payload: p}

	if name, ok := c.strRequired("name"); ok && name != "" {
		profile.PersonalInfo["name"] = name
	}
	if headline, ok := c.str("headline"); ok && headline != "" {
		profile.ProfessionalInfo["headline"] = headline
	}
	if location, ok := c.str("location"); ok && location != "" {
		profile.Locations.Add(location)
	}
	// LinkedIn calls the bio field "about".
	if about, ok := c.str("about"); ok && about != "" {
		profile.PersonalInfo["bio"] = about
	}
	if company, ok := c.str("company"); ok && company != "" {
		profile.Organizations.Add(company)
	}
	if role, ok := c.str("role"); ok && role != "" {
		profile.ProfessionalInfo["role"] = role
	}
	return c.degs
}

func fuseTwitter(profile *model.UnifiedProfile, p *model.PlatformPayload) []model.Degradation {
	c := &collector{payload: p}

	if username, ok := c.strRequired("username"); ok && username != "" {
		profile.Identities["twitter"] = username
	}
	if name, ok := c.str("name"); ok && name != "" {
		profile.PersonalInfo["name"] = name
	}
	if bio, ok := c.str("bio"); ok && bio != "" {
		profile.PersonalInfo["bio"] = bio
	}
	if location, ok := c.str("location"); ok && location != "" {
		profile.Locations.Add(location)
	}
	if website, ok := c.str("website"); ok && website != "" {
		profile.Websites.Add(website)
	}

	c.metric(profile, "followers_count", "twitter_followers")
	c.metric(profile, "following_count", "twitter_following")
	c.metric(profile, "tweets_count", "twitter_tweets")
	return c.degs
}

func fuseReddit(profile *model.UnifiedProfile, p *model.PlatformPayload) []model.Degradation {
	c := &collector{payload: p}

	if name, ok := c.strRequired("name"); ok && name != "" {
		profile.Identities["reddit"] = name
	}

	c.metric(profile, "link_karma", "reddit_link_karma")
	c.metric(profile, "comment_karma", "reddit_comment_karma")
	return c.degs
}

func fuseFacebook(profile *model.UnifiedProfile, p *model.PlatformPayload) []model.Degradation {
	c := &collector{payload: p}

	if name, ok := c.strRequired("name"); ok && name != "" {
		profile.PersonalInfo["name"] = name
	}
	if bio, ok := c.str("bio"); ok && bio != "" {
		profile.PersonalInfo["bio"] = bio
	}
	if location, ok := c.str("location"); ok && location != "" {
		profile.Locations.Add(location)
	}
	return c.degs
}

func fuseInstagram(profile *model.UnifiedProfile, p *model.PlatformPayload) []model.Degradation {
	c := &collector{payload: p}

	// Instagram puts the handle at the payload's top level, not inside
	// the profile block.
	username, present, malformed := p.ExtraString("username")
	switch {
	case malformed:
		c.degrade("username", model.DegradationMalformed)
	case !present || username == "":
		c.degrade("username", model.DegradationMissing)
	default:
		profile.Identities["instagram"] = username
	}

	if fullName, ok := c.str("full_name"); ok && fullName != "" {
		profile.PersonalInfo["name"] = fullName
	}
	if bio, ok := c.str("bio"); ok && bio != "" {
		profile.PersonalInfo["bio"] = bio
	}
	if website, ok := c.str("website"); ok && website != "" {
		profile.Websites.Add(website)
	}

	c.metric(profile, "followers_count", "instagram_followers")
	c.metric(profile, "following_count", "instagram_following")
	c.metric(profile, "posts_count", "instagram_posts")
	return c.degs
}

func fuseYouTube(profile *model.UnifiedProfile, p *model.PlatformPayload) []model.Degradation {
	c := &collector{payload: p}

	if title, ok := c.strRequired("title"); ok && title != "" {
		profile.PersonalInfo["name"] = title
	}
	if description, ok := c.str("description"); ok && description != "" {
		profile.PersonalInfo["bio"] = description
	}

	c.metric(profile, "subscriber_count", "youtube_subscribers")
	c.metric(profile, "view_count", "youtube_views")
	c.metric(profile, "video_count", "youtube_videos")
	return c.degs
}

func fuseEmail(profile *model.UnifiedProfile, p *model.PlatformPayload) []model.Degradation {
	c := &collector{payload: p}

	// Email analysis payloads carry their fields under a "data" block in
	// the extras, not under profile.
	raw, ok := p.Extras["data"]
	if !ok || raw == nil {
		c.degrade("data", model.DegradationMissing)
		return c.degs
	}
	data, ok := raw.(map[string]any)
	if !ok {
		c.degrade("data", model.DegradationMalformed)
		return c.degs
	}

	email, emailOK := stringFrom(data, "email")
	switch {
	case !emailOK:
		c.degrade("data.email", model.DegradationMalformed)
	case email == "":
		c.degrade("data.email", model.DegradationMissing)
	default:
		profile.Identities["email"] = email
		profile.Emails.Add(email)
	}

	// A corporate address also ties the subject to the domain's
	// organization.
	corporate, corporateOK := boolFrom(data, "corporate")
	domain, domainOK := stringFrom(data, "domain")
	if !corporateOK {
		c.degrade("data.corporate", model.DegradationMalformed)
	}
	if !domainOK {
		c.degrade("data.domain", model.DegradationMalformed)
	}
	if corporateOK && domainOK && corporate && domain != "" {
		profile.Organizations.Add(domain)
	}
	return c.degs
}

// stringFrom reads a string value from an open map. Absent and nil values
// are returned as empty strings; only wrong types report failure.
func stringFrom(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

// boolFrom reads a bool value from an open map with the same conventions
// as stringFrom.
func boolFrom(m map[string]any, key string) (bool, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, true
	}
	b, ok := v.(bool)
	return b, ok
}

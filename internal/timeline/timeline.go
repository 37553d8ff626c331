package timeline

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/profilescan/profilescan/internal/model"
)

// Builder assembles exposure timelines.
type Builder struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithClock overrides the time source. Used by tests to pin event dates
// for artifacts that carry no timestamp of their own.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives the exposure timeline from the fused profile and the
// secondary artifacts. Events are sorted oldest first; events without a
// timestamp of their own are dated at the profile's collection time, or
// the current time when that too is unknown.
func (b *Builder) Build(profile *model.UnifiedProfile, artifacts *model.SecondaryArtifacts) []model.TimelineEvent {
	observed := b.now()
	if profile != nil && !profile.CollectedAt.IsZero() {
		observed = profile.CollectedAt
	}

	var events []model.TimelineEvent

	if artifacts != nil {
		for _, repo := range artifacts.Repositories {
			if repo.CreatedAt.IsZero() {
				continue
			}
			events = append(events, model.TimelineEvent{
				Date:     repo.CreatedAt,
				Platform: "GitHub",
				Event:    fmt.Sprintf("Repository %q created", repo.Name),
				Severity: model.SeverityLow,
			})
		}

		for _, secret := range artifacts.Secrets {
			events = append(events, model.TimelineEvent{
				Date:     observed,
				Platform: "GitHub",
				Event:    fmt.Sprintf("Exposed %s found in %s", secret.Kind, secret.Source),
				Severity: model.SeverityHigh,
			})
		}
	}

	if profile != nil {
		title := cases.Title(language.Und)
		platforms := make([]string, 0, len(profile.Identities))
		for platform := range profile.Identities {
			platforms = append(platforms, platform)
		}
		sort.Strings(platforms)

		for _, platform := range platforms {
			handle := profile.Identities[platform]
			if handle == "" {
				continue
			}
			events = append(events, model.TimelineEvent{
				Date:     observed,
				Platform: title.String(platform),
				Event:    fmt.Sprintf("Account %q active", handle),
				Severity: model.SeverityLow,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	b.logger.Debug("timeline built", "events", len(events))
	return events
}

// Stats summarizes a timeline for the report header.
type Stats struct {
	TotalEvents    int
	CriticalEvents int
	HighEvents     int
	Earliest       time.Time
	Latest         time.Time
}

// Summarize computes summary statistics over a timeline. The events must
// already be sorted oldest first, as Build returns them.
func Summarize(events []model.TimelineEvent) Stats {
	stats := Stats{TotalEvents: len(events)}
	if len(events) == 0 {
		return stats
	}

	stats.Earliest = events[0].Date
	stats.Latest = events[len(events)-1].Date
	for _, e := range events {
		switch e.Severity {
		case model.SeverityCritical:
			stats.CriticalEvents++
		case model.SeverityHigh:
			stats.HighEvents++
		}
	}
	return stats
}

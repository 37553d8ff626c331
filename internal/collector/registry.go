package collector

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/model"
)

// maxConcurrentCollectors bounds the fan-out per subject. Eight platforms
// exist, so this effectively means all enabled collectors run at once
// while still bounding goroutines for future platforms.
const maxConcurrentCollectors = 8

// task pairs a collector with the subject handle it should collect.
type task struct {
	collector Collector
	handle    string
}

// Registry assembles and runs the collectors enabled for a scan.
type Registry struct {
	cfg    *config.Config
	file   *config.File
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a collector registry. The config file may be nil
// when no .profilescan file was found.
func NewRegistry(cfg *config.Config, opts ...RegistryOption) *Registry {
	r := &Registry{
		cfg:    cfg,
		file:   cfg.PlatformConfigs,
		logger: slog.Default(),
	}
	if r.file == nil {
		r.file = &config.File{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result holds the payloads gathered for one subject, plus the per
// platform errors for collectors that failed.
type Result struct {
	Payloads []model.PlatformPayload
	Errors   map[model.Platform]error
}

// Collect runs every enabled collector for the subject concurrently and
// gathers their payloads. Collector failures are recorded per platform
// and never fail the collection as a whole; only context cancellation
// stops it early.
func (r *Registry) Collect(ctx context.Context, subject model.ScanSubject) (*Result, error) {
	tasks := r.tasks(subject)
	result := &Result{Errors: make(map[model.Platform]error)}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCollectors)

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			platform := t.collector.Platform()
			payload, err := t.collector.Collect(ctx, t.handle)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Warn("collector failed",
					"platform", platform.String(), "error", err)
				result.Errors[platform] = err
				return nil
			}
			r.logger.Debug("collector succeeded", "platform", platform.String())
			result.Payloads = append(result.Payloads, *payload)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// tasks builds the list of enabled collectors with their handles.
// Platforms without a handle or disabled in the config file are skipped.
func (r *Registry) tasks(subject model.ScanSubject) []task {
	handles := map[model.Platform]string{
		model.PlatformGitHub:    subject.GitHub,
		model.PlatformEmail:     subject.Email,
		model.PlatformReddit:    subject.Reddit,
		model.PlatformTwitter:   subject.Twitter,
		model.PlatformInstagram: subject.Instagram,
		model.PlatformFacebook:  subject.Facebook,
		model.PlatformYouTube:   subject.YouTube,
		model.PlatformLinkedIn:  subject.LinkedIn,
	}

	var tasks []task
	for _, platform := range model.FusionOrder {
		handle := handles[platform]
		if handle == "" {
			continue
		}

		pc := r.file.GetPlatformConfig(platform.String())
		if pc.Disabled {
			r.logger.Debug("platform disabled", "platform", platform.String())
			continue
		}

		c, err := r.build(platform, pc)
		if err != nil {
			r.logger.Warn("no collector available",
				"platform", platform.String(), "error", err)
			continue
		}
		tasks = append(tasks, task{collector: c, handle: handle})
	}
	return tasks
}

func (r *Registry) build(platform model.Platform, pc config.PlatformConfig) (Collector, error) {
	switch platform {
	case model.PlatformGitHub:
		return NewGitHub(r.cfg, pc), nil
	case model.PlatformEmail:
		return NewEmail(), nil
	case model.PlatformReddit:
		return NewReddit(r.cfg, pc), nil
	default:
		return NewScrape(platform, r.cfg, pc)
	}
}

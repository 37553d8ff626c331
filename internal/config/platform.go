package config

// PlatformConfig holds collector settings for a single platform.
// This allows customizing collection behavior per platform.
type PlatformConfig struct {
	// Disabled skips this platform's collector entirely, even when the
	// subject has a handle for it.
	Disabled bool `yaml:"disabled,omitempty"`

	// APIToken is an optional API token for authenticated requests.
	// Authenticated requests typically get higher rate limits.
	APIToken string `yaml:"apiToken,omitempty"`

	// BaseURL overrides the platform's default API or profile base URL.
	// Useful for testing against mirrors or API proxies.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Headers are custom HTTP headers to include in requests to this platform.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .profilescan configuration file.
type File struct {
	// Platforms maps platform names to their collector configurations.
	// Keys are the canonical lowercase platform names (e.g., "github").
	Platforms map[string]PlatformConfig `yaml:"platforms,omitempty"`

	// Defaults contains default platform configuration applied to all
	// platforms unless overridden in the platform-specific configuration.
	Defaults PlatformConfig `yaml:"defaults,omitempty"`

	// Weights optionally overrides the risk component weights.
	// Keys are data_sensitivity, cross_platform, recency, exploitability.
	Weights map[string]float64 `yaml:"weights,omitempty"`
}

// GetPlatformConfig returns the configuration for a specific platform.
// It merges the platform-specific configuration with defaults.
func (cf *File) GetPlatformConfig(platform string) PlatformConfig {
	// Start with defaults. The headers map is cloned so per-platform
	// merges never write into the shared defaults.
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	// Override with platform-specific configuration if present
	if pc, ok := cf.Platforms[platform]; ok {
		if pc.Disabled {
			result.Disabled = true
		}
		if pc.APIToken != "" {
			result.APIToken = pc.APIToken
		}
		if pc.BaseURL != "" {
			result.BaseURL = pc.BaseURL
		}
		if len(pc.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range pc.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}

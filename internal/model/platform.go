package model

// platformUnknownStr is the string representation for unknown platform values.
const platformUnknownStr = "unknown"

// Platform represents a supported data collection platform.
type Platform string

// Platform constants.
const (
	// PlatformUnknown represents an unknown platform.
	PlatformUnknown Platform = ""
	// PlatformGitHub represents GitHub.
	PlatformGitHub Platform = "github"
	// PlatformLinkedIn represents LinkedIn.
	PlatformLinkedIn Platform = "linkedin"
	// PlatformTwitter represents Twitter/X.
	PlatformTwitter Platform = "twitter"
	// PlatformReddit represents Reddit.
	PlatformReddit Platform = "reddit"
	// PlatformFacebook represents Facebook.
	PlatformFacebook Platform = "facebook"
	// PlatformInstagram represents Instagram.
	PlatformInstagram Platform = "instagram"
	// PlatformYouTube represents YouTube.
	PlatformYouTube Platform = "youtube"
	// PlatformEmail represents email-derived data (not a social platform,
	// but the original collection contract treats it as one).
	PlatformEmail Platform = "email"
)

// FusionOrder is the canonical platform processing order for profile fusion.
// Free-text fields (name, bio) are last-write-wins, so fusing payloads in
// this fixed order makes the merged profile deterministic regardless of the
// order in which collectors finished.
var FusionOrder = []Platform{
	PlatformGitHub,
	PlatformLinkedIn,
	PlatformTwitter,
	PlatformReddit,
	PlatformFacebook,
	PlatformInstagram,
	PlatformYouTube,
	PlatformEmail,
}

// String returns the string representation of the Platform.
func (p Platform) String() string {
	if p == PlatformUnknown {
		return platformUnknownStr
	}
	return string(p)
}

// IsValid returns true if this is a known platform.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformGitHub, PlatformLinkedIn, PlatformTwitter, PlatformReddit,
		PlatformFacebook, PlatformInstagram, PlatformYouTube, PlatformEmail:
		return true
	default:
		return false
	}
}

// FusionRank returns the position of the platform in the canonical fusion
// order. Unknown platforms sort after all known ones so they are still
// processed (and ignored by the extraction tables) deterministically.
func (p Platform) FusionRank() int {
	for i, candidate := range FusionOrder {
		if p == candidate {
			return i
		}
	}
	return len(FusionOrder)
}

// ParsePlatform converts a string to Platform.
// It accepts the aliases used by the upstream collection contract
// (e.g. "GitHub", "X") in addition to the canonical lowercase names.
func ParsePlatform(s string) Platform {
	switch s {
	case "github", "GitHub":
		return PlatformGitHub
	case "linkedin", "LinkedIn":
		return PlatformLinkedIn
	case "twitter", "Twitter", "x", "X":
		return PlatformTwitter
	case "reddit", "Reddit":
		return PlatformReddit
	case "facebook", "Facebook":
		return PlatformFacebook
	case "instagram", "Instagram":
		return PlatformInstagram
	case "youtube", "YouTube":
		return PlatformYouTube
	case "email", "Email":
		return PlatformEmail
	default:
		return PlatformUnknown
	}
}

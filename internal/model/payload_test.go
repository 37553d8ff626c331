package model

import "testing"

func TestPlatformPayloadAccessors(t *testing.T) {
	t.Parallel()

	payload := &PlatformPayload{
		Platform: PlatformGitHub,
		Profile: map[string]any{
			"login":     "octocat",
			"followers": float64(99),
			"repos":     7,
			"name":      nil,
			"bio":       12345,
		},
		Extras: map[string]any{
			"username":  "octo",
			"corporate": true,
		},
	}

	t.Run("ProfileString distinguishes missing and malformed", func(t *testing.T) {
		t.Parallel()
		if v, present, malformed := payload.ProfileString("login"); v != "octocat" || !present || malformed {
			t.Errorf("login: got (%q, %v, %v)", v, present, malformed)
		}
		if _, present, _ := payload.ProfileString("absent"); present {
			t.Error("absent field must not be present")
		}
		// nil values count as missing, not malformed
		if _, present, malformed := payload.ProfileString("name"); present || malformed {
			t.Error("nil field must count as missing")
		}
		if _, present, malformed := payload.ProfileString("bio"); !present || !malformed {
			t.Error("non-string field must be present and malformed")
		}
	})

	t.Run("ProfileInt accepts JSON number types", func(t *testing.T) {
		t.Parallel()
		if v, present, malformed := payload.ProfileInt("followers"); v != 99 || !present || malformed {
			t.Errorf("followers: got (%d, %v, %v)", v, present, malformed)
		}
		if v, _, _ := payload.ProfileInt("repos"); v != 7 {
			t.Errorf("repos: got %d", v)
		}
		if _, present, malformed := payload.ProfileInt("login"); !present || !malformed {
			t.Error("string field must be malformed as int")
		}
	})

	t.Run("Extras accessors work on nil maps", func(t *testing.T) {
		t.Parallel()
		empty := &PlatformPayload{Platform: PlatformEmail}
		if _, present, _ := empty.ExtraString("data"); present {
			t.Error("nil extras must report missing")
		}
		if v, present, malformed := payload.ExtraBool("corporate"); !v || !present || malformed {
			t.Errorf("corporate: got (%v, %v, %v)", v, present, malformed)
		}
		if v, _, _ := payload.ExtraString("username"); v != "octo" {
			t.Errorf("username: got %q", v)
		}
	})
}

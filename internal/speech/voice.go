package speech

import "github.com/Bharath-kolekar/cognomegafxg/internal/backend"

// Well-known voice tokens served by the backend.
const (
	ClonedVoiceToken  = "xtts_cloned"
	DefaultVoiceToken = "xtts_default"
)

// ResolvePreferredVoice honors an explicitly selected voice when it is
// present in the fetched list. A missing or stale selection falls back to
// the token policy of ResolveVoice.
func ResolvePreferredVoice(voices []backend.Voice, preferred string, useCloned bool) (backend.Voice, bool) {
	if preferred != "" {
		for _, voice := range voices {
			if voice.ID == preferred {
				return voice, true
			}
		}
	}

	return ResolveVoice(voices, useCloned)
}

// ResolveVoice picks the voice a synthesis request should use. With the
// cloned preference enabled the cloned-token voice wins when present;
// otherwise the default-token voice; otherwise the first voice in the
// fetched list. An empty list resolves to no voice.
func ResolveVoice(voices []backend.Voice, useCloned bool) (backend.Voice, bool) {
	if len(voices) == 0 {
		return backend.Voice{}, false
	}

	if useCloned {
		for _, voice := range voices {
			if voice.ID == ClonedVoiceToken {
				return voice, true
			}
		}
	}

	for _, voice := range voices {
		if voice.ID == DefaultVoiceToken {
			return voice, true
		}
	}

	return voices[0], true
}

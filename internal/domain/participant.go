// Package domain contains call entities without logic, just meta-data
package domain

import (
	"strings"

	"github.com/google/uuid"
)

const (
	MaxDisplayNameLen = 36
	identitySuffixLen = 8
	defaultIdentity   = "guest"
)

// ParticipantID is the uid of a call participant, local or remote.
type ParticipantID string

// Participant is a read-only view of a remote participant for observers
// (no transport fields).
type Participant struct {
	ID    ParticipantID `json:"id"`
	Audio bool          `json:"audio"`
	Video bool          `json:"video"`
}

// Has reports whether the participant currently publishes kind.
func (p Participant) Has(kind MediaKind) bool {
	switch kind {
	case MediaAudio:
		return p.Audio
	case MediaVideo:
		return p.Video
	}
	return false
}

// NewParticipantID derives a local identity from a display name hint plus a
// random suffix, so two people called "Alice" never collide in a channel.
func NewParticipantID(displayName string) ParticipantID {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:identitySuffixLen]
	return ParticipantID(slug(displayName) + "-" + suffix)
}

// DisplayName trims the hint to MaxDisplayNameLen runes.
func DisplayName(hint string) string {
	name := strings.TrimSpace(hint)
	if r := []rune(name); len(r) > MaxDisplayNameLen {
		name = string(r[:MaxDisplayNameLen])
	}
	return name
}

func slug(hint string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(DisplayName(hint)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			lastDash = false
		case r == '-' || r == ' ' || r == '.':
			if b.Len() > 0 && !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return defaultIdentity
	}
	return s
}

package models

import (
	"fmt"
	"strings"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

// TrackView is a track as shown to the user, with every field pre-formatted.
type TrackView struct {
	Title    string `json:"title"`
	Artists  string `json:"artists"`
	Duration string `json:"duration"`
	Source   string `json:"source"`
	Reason   string `json:"reason,omitempty"`
}

// Preview is the payload handed to surfaces after planning.
type Preview struct {
	Destination string      `json:"destination"`
	ToAdd       []TrackView `json:"to_add"`
	Skipped     []TrackView `json:"skipped"`
	Stats       []StatEntry `json:"stats"`
	VideoIDs    []string    `json:"video_ids"`
}

func viewOf(t Track) TrackView {
	return TrackView{Title: t.Title, Artists: t.Artists, Duration: t.Duration, Source: t.SourceLabel}
}

// NewPreview flattens a plan into its display form.
func NewPreview(plan *MergePlan) *Preview {
	p := &Preview{
		Destination: plan.Destination.Title,
		ToAdd:       make([]TrackView, len(plan.ToAdd)),
		Skipped:     make([]TrackView, len(plan.Skipped)),
		Stats:       plan.Stats.Entries(),
		VideoIDs:    plan.VideoIDs(),
	}
	for i, t := range plan.ToAdd {
		p.ToAdd[i] = viewOf(t)
	}
	for i, s := range plan.Skipped {
		v := viewOf(s.Track)
		v.Reason = s.Reason.String()
		p.Skipped[i] = v
	}
	return p
}

// PublishResult is the terminal outcome of a publish. PlaylistURL is set only on success.
type PublishResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	PlaylistID  string `json:"playlist_id,omitempty"`
	PlaylistURL string `json:"playlist_url,omitempty"`
	Added       int    `json:"added"`
	Batches     int    `json:"batches"`
	Created     bool   `json:"created"`
}

// Privacy is the visibility of a created playlist.
type Privacy string

const (
	PrivacyPrivate  Privacy = "PRIVATE"
	PrivacyUnlisted Privacy = "UNLISTED"
	PrivacyPublic   Privacy = "PUBLIC"
)

// PrivacyChoices lists the accepted values in display order.
var PrivacyChoices = []Privacy{PrivacyPrivate, PrivacyUnlisted, PrivacyPublic}

// ParsePrivacy accepts any casing; empty means private.
func ParsePrivacy(s string) (Privacy, error) {
	switch p := Privacy(strings.ToUpper(strings.TrimSpace(s))); p {
	case "":
		return PrivacyPrivate, nil
	case PrivacyPrivate, PrivacyUnlisted, PrivacyPublic:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (want PRIVATE, UNLISTED or PUBLIC)", shared.ErrInvalidPrivacy, s)
	}
}

func (p Privacy) String() string { return string(p) }

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// NoDuration is rendered when a track carries no usable duration.
	NoDuration   = "—"
	UnknownTitle = "Unknown"
)

// Artist is one entry of a track's structured artist list.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// FlexInt decodes a JSON number or numeric string. Anything else leaves Valid false without failing the decode.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*f = FlexInt{Value: n, Valid: true}
		}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexInt{Value: int(i), Valid: true}
	} else if fl, err := n.Float64(); err == nil {
		*f = FlexInt{Value: int(fl), Valid: true}
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// RawTrack is a track record as returned by the remote library. Every field is optional.
type RawTrack struct {
	VideoID         string   `json:"videoId,omitempty"`
	SetVideoID      string   `json:"setVideoId,omitempty"`
	Title           string   `json:"title,omitempty"`
	Artists         []Artist `json:"artists,omitempty"`
	Author          string   `json:"author,omitempty"`
	ArtistsText     string   `json:"artistsText,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	Length          string   `json:"length,omitempty"`
	LengthText      string   `json:"lengthText,omitempty"`
	LengthSeconds   *FlexInt `json:"lengthSeconds,omitempty"`
	DurationSeconds int      `json:"duration_seconds,omitempty"`
}

// ID returns videoId, falling back to setVideoId. Empty means the track has no identifier.
func (r RawTrack) ID() string {
	if r.VideoID != "" {
		return r.VideoID
	}
	return r.SetVideoID
}

// ArtistText joins the structured artist names with ", ".
// When the list is absent it falls back to author, then artistsText.
func (r RawTrack) ArtistText() string {
	if len(r.Artists) > 0 {
		names := make([]string, 0, len(r.Artists))
		for _, a := range r.Artists {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		return strings.Join(names, ", ")
	}
	if r.Author != "" {
		return r.Author
	}
	return r.ArtistsText
}

// DurationText prefers the pre-formatted duration fields over the numeric ones.
func (r RawTrack) DurationText() string {
	for _, v := range []string{r.Duration, r.Length, r.LengthText} {
		if v != "" {
			return v
		}
	}
	if r.LengthSeconds != nil && r.LengthSeconds.Valid {
		return FormatDuration(r.LengthSeconds.Value)
	}
	if r.DurationSeconds > 0 {
		return FormatDuration(r.DurationSeconds)
	}
	return NoDuration
}

func (r RawTrack) TitleText() string {
	if r.Title == "" {
		return UnknownTitle
	}
	return r.Title
}

// FormatDuration renders seconds as M:SS, or H:MM:SS when there is at least one hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		return NoDuration
	}
	h, m, s := seconds/3600, (seconds/60)%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Track is a normalized track tagged with the source it was fetched from.
type Track struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Artists     string `json:"artists"`
	Duration    string `json:"duration"`
	SourceLabel string `json:"source"`
}

// NewTrack normalizes a raw record. Applying it to the same record always yields the same Track.
func NewTrack(raw RawTrack, sourceLabel string) Track {
	return Track{
		VideoID:     raw.ID(),
		Title:       raw.TitleText(),
		Artists:     raw.ArtistText(),
		Duration:    raw.DurationText(),
		SourceLabel: sourceLabel,
	}
}

// NewTracks normalizes a whole source listing, preserving order.
func NewTracks(raws []RawTrack, sourceLabel string) []Track {
	tracks := make([]Track, len(raws))
	for i, raw := range raws {
		tracks[i] = NewTrack(raw, sourceLabel)
	}
	return tracks
}

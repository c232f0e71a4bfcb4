package models

import (
	"strconv"
	"strings"
)

const (
	// LikedPlaylistID is the remote id of the liked-songs collection.
	LikedPlaylistID = "LM"
	LikedSongsLabel = "Liked Songs"
)

// Playlist is a library playlist summary.
type Playlist struct {
	ID          string `json:"playlistId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Privacy     string `json:"privacy,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// SourceDescriptor names one collection to merge from.
type SourceDescriptor struct {
	Title      string `json:"title"`
	PlaylistID string `json:"playlistId,omitempty"`
	Liked      bool   `json:"liked,omitempty"`
}

// LikedSongs is the descriptor for the liked-songs collection.
func LikedSongs() SourceDescriptor {
	return SourceDescriptor{Title: LikedSongsLabel, PlaylistID: LikedPlaylistID, Liked: true}
}

// IsLiked reports whether the descriptor must be fetched through the liked-songs path.
func (s SourceDescriptor) IsLiked() bool {
	return s.Liked || s.PlaylistID == LikedPlaylistID
}

// Label is the source label stamped on fetched tracks.
func (s SourceDescriptor) Label() string {
	if s.IsLiked() && s.Title == "" {
		return LikedSongsLabel
	}
	return s.Title
}

// NormalizeTitle is the comparison key for playlist titles: trimmed and lowercased.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// TitlesMatch compares playlist titles ignoring case and surrounding whitespace.
func TitlesMatch(a, b string) bool {
	return NormalizeTitle(a) == NormalizeTitle(b)
}

// FindPlaylist returns the first playlist whose title matches, or nil.
func FindPlaylist(playlists []Playlist, title string) *Playlist {
	want := NormalizeTitle(title)
	for i := range playlists {
		if NormalizeTitle(playlists[i].Title) == want {
			return &playlists[i]
		}
	}
	return nil
}

// DestinationState describes the destination playlist before publishing.
type DestinationState struct {
	Title      string              `json:"title"`
	PlaylistID string              `json:"playlist_id,omitempty"`
	Existing   map[string]struct{} `json:"-"`
}

// Exists reports whether the destination was found in the library.
func (d DestinationState) Exists() bool {
	return d.PlaylistID != ""
}

// Contains reports whether videoID is already in the destination.
func (d DestinationState) Contains(videoID string) bool {
	_, ok := d.Existing[videoID]
	return ok
}

// SkipReason explains why a fetched track is not added.
type SkipReason int

const (
	SkipNoVideoID SkipReason = iota
	SkipAlreadyInDestination
	SkipDuplicate
)

func (r SkipReason) String() string {
	switch r {
	case SkipNoVideoID:
		return "No video ID"
	case SkipAlreadyInDestination:
		return "Already in destination"
	case SkipDuplicate:
		return "Duplicate"
	default:
		return "Unknown"
	}
}

func (r SkipReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

type SkippedTrack struct {
	Track  Track      `json:"track"`
	Reason SkipReason `json:"reason"`
}

// PlanStats counts the outcome of a plan. Total always equals ToAdd + Skipped.
type PlanStats struct {
	Total                int  `json:"total"`
	ToAdd                int  `json:"to_add"`
	Skipped              int  `json:"skipped"`
	AlreadyInDestination int  `json:"already_in_destination"`
	Duplicates           int  `json:"duplicates"`
	NoVideoID            int  `json:"no_video_id"`
	DestinationExists    bool `json:"destination_exists"`
}

// StatEntry is one labelled, pre-formatted statistic.
type StatEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Entries renders the stats in display order.
func (s PlanStats) Entries() []StatEntry {
	exists := "No (will be created)"
	if s.DestinationExists {
		exists = "Yes"
	}
	return []StatEntry{
		{"Total tracks processed", strconv.Itoa(s.Total)},
		{"Tracks to add", strconv.Itoa(s.ToAdd)},
		{"Tracks skipped", strconv.Itoa(s.Skipped)},
		{"Already in destination", strconv.Itoa(s.AlreadyInDestination)},
		{"Duplicates removed", strconv.Itoa(s.Duplicates)},
		{"No video ID", strconv.Itoa(s.NoVideoID)},
		{"Destination exists", exists},
	}
}

// MergePlan is the preview outcome: ToAdd and Skipped together hold every fetched track exactly once.
type MergePlan struct {
	ToAdd       []Track          `json:"to_add"`
	Skipped     []SkippedTrack   `json:"skipped"`
	Stats       PlanStats        `json:"stats"`
	Destination DestinationState `json:"destination"`
}

// VideoIDs returns the ids to publish, in plan order.
func (p *MergePlan) VideoIDs() []string {
	ids := make([]string, len(p.ToAdd))
	for i, t := range p.ToAdd {
		ids[i] = t.VideoID
	}
	return ids
}

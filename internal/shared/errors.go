package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig   = fmt.Errorf("configuration not found")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrMissingAuthFile = fmt.Errorf("missing auth file")
	ErrSettings        = fmt.Errorf("settings unavailable")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Pipeline errors
	ErrFetch             = fmt.Errorf("source fetch failed")
	ErrDestinationLookup = fmt.Errorf("destination lookup failed")
	ErrDestinationTracks = fmt.Errorf("destination tracks unavailable")
	ErrPublish           = fmt.Errorf("publish failed")
	ErrBusy              = fmt.Errorf("operation already in progress")
	ErrNothingToAdd      = fmt.Errorf("no tracks to add to playlist")
	ErrNoSources         = fmt.Errorf("no sources selected")

	// Persistence errors
	ErrRunNotFound = fmt.Errorf("run not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidPrivacy  = fmt.Errorf("invalid privacy status")
	ErrInvalidFormat   = fmt.Errorf("invalid export format")
)

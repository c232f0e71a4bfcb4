// Package server exposes the merge engine over HTTP using gin.
//
// # Routes
//
//	GET  /health        → service status, plus the proxy status when a health check is configured
//	GET  /api/playlists → library playlists available as sources
//	POST /api/preview   → plan a merge and return the preview payload
//	POST /api/publish   → publish the video ids of an accepted preview
//	GET  /api/runs      → recorded publish runs, newest first
//
// Errors are returned as [ErrorResponse]. Sentinel errors from [shared] map to status codes in [statusFor]:
// invalid input is 400, a busy engine is 409, proxy and destination lookup failures are 502.
//
// The handlers hold no state of their own; the busy guards live in [tasks.Engine], so a second preview
// started while one is running fails the same way it does in the CLI and TUI.
package server

// Package services defines the [Library] interface the merge pipeline uses to reach the remote
// music library and implements it for YouTube Music.
//
// # YouTube Music Implementation
//
// [YTMusicService] communicates with a FastAPI proxy server wrapping ytmusicapi.
//
// The proxy handles YouTube Music authentication. The path of the browser.json headers file is
// sent via the X-Auth-File header on each request. Every call is a single synchronous HTTP
// request; there is no pagination beyond the limit query parameter.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrServiceUnavailable] : the proxy could not be reached
//   - [shared.ErrAPIRequest] : non-2xx response, carrying the proxy's detail message when present
//   - [shared.ErrPlaylistNotFound] : the proxy answered 404
package services

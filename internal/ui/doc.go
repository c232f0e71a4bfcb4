// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through one merge:
//  1. [SelectView] : Pick source playlists (space), filter with /, toggle liked songs with l
//  2. [DestinationView] : Name the destination and cycle its privacy with tab
//  3. [PlanningView] : Status messages while the preview is generated
//  4. [PreviewView] : Stats and the scrollable track tables
//  5. [ConfirmView] : Confirm publishing
//  6. [PublishingView] : Progress bar fed by per-batch progress events
//  7. [ResultView] : Outcome and playlist URL (o opens it)
//
// Preview and publish run as [tasks.Task] values. The model pulls one update per command, so
// status and progress are rendered in order and the outcome arrives last.
//
// The destination title, privacy and liked-songs choice are saved to the settings file when a
// preview starts.
package ui

// Package tasks implements the merge-preview and publish pipeline.
//
// # Stages
//
//  1. [Fetcher] : one remote call per source, normalizing raw records into tracks tagged with their source label
//  2. [Planner] : resolves the destination by title and classifies every fetched track as to-add or skipped
//     (no video id, already in destination, duplicate), in source order with liked songs last
//  3. [Publisher] : finds or creates the destination and appends ids in batches of 50, paced by a rate limiter
//
// [Engine] sequences the stages for the CLI, TUI and HTTP surfaces and allows at most one preview and one
// publish in flight at a time.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends wait for channel capacity or the end
// of the context, so events are never dropped or reordered. [Task] runs an operation in the background and closes
// its update channel before the outcome becomes available.
//
// # Run Recording
//
// The optional [RunRecorder] interface persists each publish (repositories.RunRepository).
// Recorder errors are logged and never fail a publish.
package tasks

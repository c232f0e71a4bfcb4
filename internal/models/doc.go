// Package models defines the value objects passed between the stages of the merge pipeline.
//
// The package contains two categories of types:
//
// 1. Pipeline values, immutable once produced:
//   - [RawTrack] : optional-field track record from the remote library, with the extraction rules
//   - [Track] : normalized track tagged with its source label
//   - [SourceDescriptor] : a playlist or the liked-songs collection to merge from
//   - [DestinationState] : the resolved destination and the video ids it already holds
//   - [MergePlan] : tracks to add, skipped tracks with a [SkipReason], and [PlanStats]
//   - [Preview] / [PublishResult] : what surfaces display
//
// 2. Persistent entities:
//   - [MergeRun] : a recorded publish attempt
//
// Track identity is the video id alone.
package models

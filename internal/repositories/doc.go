// Package repositories implements SQLite persistence for publish-run history.
//
// [RunRepository] handles CRUD operations for [models.MergeRun] with atomic sequence generation for
// human-readable ordering (run #1, #2, ...). Runs are soft deleted via deleted_at and excluded from
// queries by default. The sources a run merged from are kept in merge_run_sources.
//
// [RunRecorder] adapts the repository to tasks.RunRecorder so every publish is recorded as it happens,
// including the committed track count after each batch.
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories

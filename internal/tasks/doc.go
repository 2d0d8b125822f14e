// Package tasks runs long backend operations with real-time progress reporting.
//
// # Feed Export
//
// [ExportEngine.Export] snapshots one or more feeds ("all", "offers", "requests" or the session user's own "mine")
// to disk in three phases:
//
//  1. [FetchFeed]: each feed is fetched in turn, paced by the shared rate limiter
//  2. [ResolveAuthors]: the distinct posters across all feeds are looked up by a pool of workers, again paced by
//     the limiter; a failed lookup is recorded and the post falls back to the name embedded in it
//  3. [WriteExport]: each feed is written in the requested format (json, csv, markdown, txt) through the
//     formatter package, followed by an export_manifest.json summarizing the run
//
// A feed that cannot be fetched or written is reported in the result without aborting the others.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks

// Package tasks reads the task list outside of a live view and exports it to files with progress reporting.
//
// # Operations
//
//  1. [Snapshotter.Snapshot] : Fetch and parse the rendered task list
//     - Requests the snapshot fragment from the dashboard server
//     - Swaps it into a fresh shell document
//     - Collects the rows of every bucket into a [models.Board]
//
//  2. [Snapshotter.BulkExport] : Write a board in several formats at once
//     - Renders each format on a small worker pool
//     - Records every written file in an export manifest
//
// # Progress Reporting
//
// Both operations take an optional channel of [ProgressUpdate].
// Sends never block; updates are dropped when the channel is full.
package tasks

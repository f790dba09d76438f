// Package models defines the task data model shared by the tree, the dispatcher, and the dashboard.
//
// A [Task] is a read-only view of one task row in the live tree: its identifier, the [Bucket]
// it is rendered in, its opaque markup, and its optional error payload.
package models

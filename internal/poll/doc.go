// Package poll periodically replaces the task list with a full server-rendered snapshot.
package poll

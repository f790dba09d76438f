// Package ui implements the interactive task dashboard using bubbletea's Elm architecture.
//
// The dashboard shows the three buckets side by side:
//  1. Queued : tasks waiting for a worker
//  2. Active : tasks being downloaded
//  3. Ended : finished tasks, failed ones marked with their error
//
// The (view) [Model] consumes engine views from a channel and never reads the live tree directly.
// Moving the cursor reports the pane's offset back to the engine so a full refresh keeps the position.
//
// Alerts and confirmations raised by the engine or the dispatcher are routed through a [Prompter],
// which shows them as a modal and blocks the caller until the user answers.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui

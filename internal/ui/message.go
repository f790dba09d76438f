package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/taskview/internal/control"
	"github.com/desertthunder/taskview/internal/engine"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgViewChanged MsgKind = iota
	MsgActionDone
	MsgPrompt
)

// prompt is a pending alert or confirmation. reply is buffered so answering never blocks.
type prompt struct {
	text    string
	confirm bool
	reply   chan bool
}

type actionResult struct {
	action control.Action
	err    error
}

// viewChangedMsg is the constructor for [MsgViewChanged]
func viewChangedMsg(v engine.View) Msg {
	return Msg{kind: MsgViewChanged, data: v}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(a control.Action, err error) Msg {
	return Msg{kind: MsgActionDone, data: actionResult{action: a, err: err}}
}

// promptMsg is the constructor for [MsgPrompt]
func promptMsg(p *prompt) Msg {
	return Msg{kind: MsgPrompt, data: p}
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/popcorn/internal/tasks"
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
	MsgSearchDone MsgKind = iota
	MsgDetailLoaded
)

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(out tasks.SearchOutcome) Msg {
	return Msg{kind: MsgSearchDone, data: out}
}

// detailLoadedMsg is the constructor for [MsgDetailLoaded]
func detailLoadedMsg(out tasks.DetailOutcome) Msg {
	return Msg{kind: MsgDetailLoaded, data: out}
}

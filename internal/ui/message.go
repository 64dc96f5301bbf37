package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/session"
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
	MsgValidated MsgKind = iota
	MsgSessionChanged
	MsgFileSelected
	MsgUploadDone
)

type uploadResult struct {
	format models.Format
	err    error
}

// validatedMsg is the constructor for [MsgValidated]
func validatedMsg(snap session.Snapshot) Msg {
	return Msg{kind: MsgValidated, data: snap}
}

// sessionChangedMsg is the constructor for [MsgSessionChanged]
func sessionChangedMsg(snap session.Snapshot) Msg {
	return Msg{kind: MsgSessionChanged, data: snap}
}

// fileSelectedMsg is the constructor for [MsgFileSelected]
func fileSelectedMsg(err error) Msg {
	return Msg{kind: MsgFileSelected, data: err}
}

// uploadDoneMsg is the constructor for [MsgUploadDone]
func uploadDoneMsg(format models.Format, err error) Msg {
	return Msg{kind: MsgUploadDone, data: uploadResult{format: format, err: err}}
}

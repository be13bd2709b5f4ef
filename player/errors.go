package player

import (
	"errors"
	"fmt"
)

var (
	ErrNoMove      = errors.New("no move available")
	ErrMovePending = errors.New("a move is already waiting")
)

// EngineProtocolError is an engine answer that does not name a legal move.
type EngineProtocolError struct {
	Engine string
	FEN    string
	Move   string
	Reason string
}

func (e *EngineProtocolError) Error() string {
	return fmt.Sprintf("engine %s answered %q for %q: %s", e.Engine, e.Move, e.FEN, e.Reason)
}

package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPos       = errors.New("invalid square")
	ErrPieceMissing     = errors.New("piece does not exist")
	ErrPieceBlocked     = errors.New("piece cannot exist there")
	ErrFlagInactive     = errors.New("required flag not active")
	ErrNothingToCapture = errors.New("nothing to capture")
	ErrPromotionMissing = errors.New("promotion not chosen")
	ErrPromotionInvalid = errors.New("promotion not allowed")
	ErrNotYourTurn      = errors.New("not this color's turn")
	ErrIllegalMove      = errors.New("illegal move")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrInvalidPosition  = errors.New("invalid position")
	ErrUnknownPiece     = errors.New("unknown piece")
)

// PieceError ties a move-application error to the piece it concerns.
type PieceError struct {
	Piece PlacedPiece
	Err   error
}

func (e *PieceError) Error() string {
	return fmt.Sprintf("%v: %v", e.Err, e.Piece)
}

func (e *PieceError) Unwrap() error {
	return e.Err
}

// FENFormatError reports a FEN string that does not parse.
type FENFormatError struct {
	FEN    string
	Reason string
}

func (e *FENFormatError) Error() string {
	return fmt.Sprintf("bad FEN %q: %s", e.FEN, e.Reason)
}

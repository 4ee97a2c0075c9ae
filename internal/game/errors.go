package game

import "errors"

var (
	ErrNotYourTurn    = errors.New("not_your_turn")
	ErrInvalidPayload = errors.New("invalid_payload")
	ErrUnknownVariant = errors.New("unknown_variant")
)

// IllegalMoveError carries the engine-specific reason a syntactically
// valid move was refused. State is never mutated on this path.
type IllegalMoveError struct {
	Reason string
}

func (e *IllegalMoveError) Error() string { return "illegal_move: " + e.Reason }

func Illegal(reason string) error { return &IllegalMoveError{Reason: reason} }

func IsIllegal(err error) bool {
	var ime *IllegalMoveError
	return errors.As(err, &ime)
}

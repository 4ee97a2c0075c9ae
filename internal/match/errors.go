package match

import "errors"

var (
	ErrRoomFull       = errors.New("room_full")
	ErrAlreadyStarted = errors.New("already_started")
	ErrNotStarted     = errors.New("match_not_started")
	ErrMatchFinished  = errors.New("match_finished")
	ErrUnknownSeat    = errors.New("unknown_seat")
	ErrMatchNotFound  = errors.New("match_not_found")
	ErrNotEnoughSeats = errors.New("not_enough_seats")
)

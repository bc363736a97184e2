package domain

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomExists        = errors.New("room already exists")
	ErrRoomFull          = errors.New("room is full")
	ErrNotInRoom         = errors.New("connection not in a room")
	ErrAlreadyRegistered = errors.New("connection already registered")
	ErrNotRegistered     = errors.New("connection not registered")
	ErrAlreadyPaired     = errors.New("connection already paired")
	ErrInvalidState      = errors.New("operation invalid for current connection state")
)

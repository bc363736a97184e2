package domain

// Mode is the exclusive lifecycle state of a connection. A connection is in
// exactly one mode at any instant.
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeWaiting Mode = "waiting"
	ModePaired  Mode = "paired"
	ModeInRoom  Mode = "in_room"
)

type Connection struct {
	ID   string
	Mode Mode
}

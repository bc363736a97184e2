package service

import (
	"crypto/rand"
	"log"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/peerwave/signaling-service/internal/domain"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// roomDirectory holds every live room plus the reverse connection→room map.
// Owned and serialized by Service.
type roomDirectory struct {
	rooms    map[string]*domain.Room
	memberOf map[string]string
}

func newRoomDirectory() *roomDirectory {
	return &roomDirectory{
		rooms:    make(map[string]*domain.Room),
		memberOf: make(map[string]string),
	}
}

// slugify derives the deterministic id of a public room from its display
// name: lower-cased, whitespace runs collapsed to a single hyphen.
func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// generateCode produces a random upper-case alphanumeric room code for
// private rooms. Collisions are handled by the caller retrying.
func generateCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[randomIndex(len(codeAlphabet))]
	}
	return string(b)
}

func randomIndex(max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		log.Panic("failed to generate random index:", err)
	}
	return int(n.Int64())
}

// create inserts a room with an empty member set. For private rooms the id
// is generated here, retried on collision; for public rooms a slug collision
// fails without mutating anything.
func (d *roomDirectory) create(name string, private bool, capacity int, creatorID string, codeLen int) (*domain.Room, error) {
	var id string
	if private {
		for {
			id = generateCode(codeLen)
			if _, ok := d.rooms[id]; !ok {
				break
			}
		}
	} else {
		id = slugify(name)
		if _, ok := d.rooms[id]; ok {
			return nil, domain.ErrRoomExists
		}
	}

	room := &domain.Room{
		ID:              id,
		Name:            name,
		Private:         private,
		MaxParticipants: capacity,
		CreatorID:       creatorID,
		Members:         make(map[string]struct{}),
		CreatedAt:       time.Now(),
	}
	d.rooms[id] = room
	return room, nil
}

func (d *roomDirectory) get(id string) (*domain.Room, bool) {
	r, ok := d.rooms[id]
	return r, ok
}

func (d *roomDirectory) roomOf(connID string) (*domain.Room, bool) {
	id, ok := d.memberOf[connID]
	if !ok {
		return nil, false
	}
	return d.rooms[id], d.rooms[id] != nil
}

func (d *roomDirectory) addMember(room *domain.Room, connID string) error {
	if len(room.Members) >= room.MaxParticipants {
		return domain.ErrRoomFull
	}
	room.Members[connID] = struct{}{}
	d.memberOf[connID] = room.ID
	return nil
}

// removeMember drops connID from its room and deletes the room when it
// becomes empty. Reports the room, whether it was deleted, and whether the
// public directory changed.
func (d *roomDirectory) removeMember(connID string) (room *domain.Room, deleted, publicChanged bool) {
	room, ok := d.roomOf(connID)
	if !ok {
		delete(d.memberOf, connID)
		return nil, false, false
	}
	delete(room.Members, connID)
	delete(d.memberOf, connID)

	if len(room.Members) == 0 {
		delete(d.rooms, room.ID)
		return room, true, !room.Private
	}
	return room, false, false
}

func (d *roomDirectory) members(room *domain.Room) []string {
	out := make([]string, 0, len(room.Members))
	for id := range room.Members {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// publicSnapshot is a point-in-time listing of public rooms.
func (d *roomDirectory) publicSnapshot() []domain.RoomInfo {
	out := make([]domain.RoomInfo, 0)
	for id, room := range d.rooms {
		if room.Private {
			continue
		}
		out = append(out, domain.RoomInfo{
			ID:              id,
			Name:            room.Name,
			Participants:    len(room.Members),
			MaxParticipants: room.MaxParticipants,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

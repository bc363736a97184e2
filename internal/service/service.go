package service

import (
	"sync"

	"github.com/peerwave/signaling-service/internal/domain"
)

type Config struct {
	DefaultRoomCapacity int
	MaxRoomCapacity     int
	RoomCodeLength      int
}

func (c Config) withDefaults() Config {
	if c.DefaultRoomCapacity <= 0 {
		c.DefaultRoomCapacity = 10
	}
	if c.MaxRoomCapacity <= 0 {
		c.MaxRoomCapacity = 10
	}
	if c.RoomCodeLength <= 0 {
		c.RoomCodeLength = 6
	}
	return c
}

// Service is the single coordinating owner of all matching state: the
// connection registry, the waiting pool, the session table and the room
// directory. Every mutation goes through one mutex, so two concurrent match
// requests can never claim the same waiting candidate and a skip/disconnect
// race can never leave a half-removed pair.
//
// Service never touches the transport. Operations return outcome structs
// describing which peers to notify; emitting events is the caller's job.
type Service struct {
	mu  sync.Mutex
	cfg Config

	reg      *registry
	sessions *sessionTable
	waiting  *waitingPool
	rooms    *roomDirectory
}

func New(cfg Config) *Service {
	return &Service{
		cfg:      cfg.withDefaults(),
		reg:      newRegistry(),
		sessions: newSessionTable(),
		waiting:  newWaitingPool(),
		rooms:    newRoomDirectory(),
	}
}

// MatchOutcome reports the result of a match request. When Matched, the
// requester is the initiator and PartnerID the answerer that was waiting.
type MatchOutcome struct {
	Matched   bool
	PartnerID string
	Waiting   bool

	// RoomExit is set when entering matching implicitly left a room.
	RoomExit *LeaveOutcome
}

// SkipOutcome reports a voluntary re-pair. FormerPartnerID, when set, must
// receive a partner-left notification.
type SkipOutcome struct {
	FormerPartnerID string
	Match           MatchOutcome
}

// CreateOutcome describes a freshly created (still empty) room.
type CreateOutcome struct {
	RoomID        string
	Name          string
	Private       bool
	PublicChanged bool
}

// JoinOutcome describes a successful room join. Roster includes the joiner.
type JoinOutcome struct {
	RoomID    string
	Roster    []string
	Count     int
	IsCreator bool

	// Implicit exits performed before the join.
	PriorLeave        *LeaveOutcome
	UnpairedPartnerID string
}

// LeaveOutcome describes a membership removal. Remaining holds the member
// ids to notify, with Count the post-leave occupancy.
type LeaveOutcome struct {
	RoomID        string
	LeftID        string
	Remaining     []string
	Count         int
	RoomDeleted   bool
	PublicChanged bool
}

// DisconnectOutcome describes the cleanup cascade for a closed connection.
// A second invocation for the same id yields the zero outcome.
type DisconnectOutcome struct {
	WasRegistered bool
	PartnerID     string
	RoomExit      *LeaveOutcome
}

// Register adds a fresh connection in mode Idle.
func (s *Service) Register(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.register(id)
}

func (s *Service) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.exists(id)
}

// RequestMatch pairs id with the oldest live waiting connection, or enqueues
// it. The newcomer is always the initiator so both sides can never produce
// an offer at once.
func (s *Service) RequestMatch(id string) (MatchOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestMatchLocked(id)
}

func (s *Service) requestMatchLocked(id string) (MatchOutcome, error) {
	mode, ok := s.reg.mode(id)
	if !ok {
		return MatchOutcome{}, domain.ErrNotRegistered
	}

	var out MatchOutcome
	switch mode {
	case domain.ModePaired:
		return MatchOutcome{}, domain.ErrInvalidState
	case domain.ModeWaiting:
		// Duplicate request; keep the existing queue position.
		if !s.waiting.contains(id) {
			s.waiting.push(id)
		}
		out.Waiting = true
		return out, nil
	case domain.ModeInRoom:
		out.RoomExit = s.leaveRoomLocked(id)
	}

	partner, found := s.waiting.popLive(id, func(cand string) bool {
		m, ok := s.reg.mode(cand)
		return ok && m == domain.ModeWaiting
	})
	if found {
		if err := s.sessions.set(id, partner); err != nil {
			return MatchOutcome{}, err
		}
		s.reg.setMode(id, domain.ModePaired)
		s.reg.setMode(partner, domain.ModePaired)
		out.Matched = true
		out.PartnerID = partner
		return out, nil
	}

	s.waiting.push(id)
	s.reg.setMode(id, domain.ModeWaiting)
	out.Waiting = true
	return out, nil
}

// Skip dissolves id's current pair, if any, and immediately re-enters
// matching. The former partner gets exactly one partner-left notification.
func (s *Service) Skip(id string) (SkipOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode, ok := s.reg.mode(id)
	if !ok {
		return SkipOutcome{}, domain.ErrNotRegistered
	}
	if mode == domain.ModeInRoom {
		return SkipOutcome{}, domain.ErrInvalidState
	}

	var out SkipOutcome
	if partner, ok := s.sessions.remove(id); ok {
		s.reg.setMode(id, domain.ModeIdle)
		s.reg.setMode(partner, domain.ModeIdle)
		out.FormerPartnerID = partner
	}

	match, err := s.requestMatchLocked(id)
	if err != nil {
		return SkipOutcome{}, err
	}
	out.Match = match
	return out, nil
}

// Partner is the relay lookup for 1:1 signaling and chat. An absent partner
// means the payload should be dropped silently.
func (s *Service) Partner(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.partner(id)
}

// CreateRoom registers a room with an empty member set. Public room ids are
// derived from the name; a collision fails without mutating state.
func (s *Service) CreateRoom(creatorID, name string, private bool, maxParticipants int) (CreateOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reg.exists(creatorID) {
		return CreateOutcome{}, domain.ErrNotRegistered
	}
	if maxParticipants <= 0 || maxParticipants > s.cfg.MaxRoomCapacity {
		maxParticipants = s.cfg.DefaultRoomCapacity
	}

	room, err := s.rooms.create(name, private, maxParticipants, creatorID, s.cfg.RoomCodeLength)
	if err != nil {
		return CreateOutcome{}, err
	}
	return CreateOutcome{
		RoomID:        room.ID,
		Name:          room.Name,
		Private:       room.Private,
		PublicChanged: !room.Private,
	}, nil
}

// JoinRoom adds id to roomID, implicitly unwinding any current pair, waiting
// slot or other room first. Capacity is checked before anything is unwound,
// so a rejected join leaves every structure untouched.
func (s *Service) JoinRoom(id, roomID string) (JoinOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reg.exists(id) {
		return JoinOutcome{}, domain.ErrNotRegistered
	}
	room, ok := s.rooms.get(roomID)
	if !ok {
		return JoinOutcome{}, domain.ErrRoomNotFound
	}
	if _, member := room.Members[id]; !member && len(room.Members) >= room.MaxParticipants {
		return JoinOutcome{}, domain.ErrRoomFull
	}

	var out JoinOutcome
	if partner, ok := s.sessions.remove(id); ok {
		s.reg.setMode(partner, domain.ModeIdle)
		out.UnpairedPartnerID = partner
	}
	s.waiting.remove(id)
	if cur, ok := s.rooms.roomOf(id); ok {
		if cur.ID == roomID {
			// Re-join of the current room: report state without double-adding.
			out.RoomID = roomID
			out.Roster = s.rooms.members(room)
			out.Count = len(room.Members)
			out.IsCreator = room.CreatorID == id
			return out, nil
		}
		out.PriorLeave = s.leaveRoomLocked(id)
	}

	if err := s.rooms.addMember(room, id); err != nil {
		return JoinOutcome{}, err
	}
	s.reg.setMode(id, domain.ModeInRoom)

	out.RoomID = roomID
	out.Roster = s.rooms.members(room)
	out.Count = len(room.Members)
	out.IsCreator = room.CreatorID == id
	return out, nil
}

// LeaveRoom removes id from its room. ErrNotInRoom when it has none.
func (s *Service) LeaveRoom(id string) (LeaveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reg.exists(id) {
		return LeaveOutcome{}, domain.ErrNotRegistered
	}
	if _, ok := s.rooms.roomOf(id); !ok {
		return LeaveOutcome{}, domain.ErrNotInRoom
	}
	return *s.leaveRoomLocked(id), nil
}

func (s *Service) leaveRoomLocked(id string) *LeaveOutcome {
	room, deleted, publicChanged := s.rooms.removeMember(id)
	s.reg.setMode(id, domain.ModeIdle)
	if room == nil {
		return &LeaveOutcome{LeftID: id}
	}
	out := &LeaveOutcome{
		RoomID:        room.ID,
		LeftID:        id,
		Count:         len(room.Members),
		RoomDeleted:   deleted,
		PublicChanged: publicChanged,
	}
	if !deleted {
		out.Remaining = s.rooms.members(room)
	}
	return out
}

// RoomMembers returns the member ids of id's current room, for broadcast.
func (s *Service) RoomMembers(id string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.roomOf(id)
	if !ok {
		return nil, false
	}
	return s.rooms.members(room), true
}

// SameRoom reports whether sender and target currently share a room. Room
// signaling is only forwarded between members of one room.
func (s *Service) SameRoom(senderID, targetID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.roomOf(senderID)
	if !ok {
		return false
	}
	_, member := room.Members[targetID]
	return member
}

// ListPublicRooms returns a snapshot of all public rooms.
func (s *Service) ListPublicRooms() []domain.RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.publicSnapshot()
}

// Disconnect unwinds every trace of id: pair, room membership, waiting slot
// and registry entry. Safe to call more than once; only the first call
// reports peers to notify.
func (s *Service) Disconnect(id string) DisconnectOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out DisconnectOutcome
	if _, ok := s.reg.unregister(id); !ok {
		return out
	}
	out.WasRegistered = true

	if partner, ok := s.sessions.remove(id); ok {
		s.reg.setMode(partner, domain.ModeIdle)
		out.PartnerID = partner
	}
	if _, ok := s.rooms.roomOf(id); ok {
		out.RoomExit = s.leaveRoomLocked(id)
	}
	s.waiting.remove(id)
	return out
}

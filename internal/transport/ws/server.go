package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/peerwave/signaling-service/internal/domain"
	"github.com/peerwave/signaling-service/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Matcher is the coordinating state service the dispatcher consults. It owns
// all matching state; this layer owns delivery.
type Matcher interface {
	Register(id string) error
	RequestMatch(id string) (service.MatchOutcome, error)
	Skip(id string) (service.SkipOutcome, error)
	Partner(id string) (string, bool)
	CreateRoom(creatorID, name string, private bool, maxParticipants int) (service.CreateOutcome, error)
	JoinRoom(id, roomID string) (service.JoinOutcome, error)
	LeaveRoom(id string) (service.LeaveOutcome, error)
	RoomMembers(id string) ([]string, bool)
	SameRoom(senderID, targetID string) bool
	ListPublicRooms() []domain.RoomInfo
	Disconnect(id string) service.DisconnectOutcome
}

type Options struct {
	MaxMessageSize int64
	SendBufferSize int
	PingInterval   time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = 64 * 1024 // enough for any SDP blob
	}
	if o.SendBufferSize <= 0 {
		o.SendBufferSize = 256
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 25 * time.Second
	}
	return o
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	svc      Matcher
	opts     Options
}

func NewServer(hub *Hub, svc Matcher, opts Options) *Server {
	return &Server{
		hub:  hub,
		svc:  svc,
		opts: opts.withDefaults(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// WS endpoint: GET /ws
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	id := uuid.NewString()
	c := newClient(id, conn, s.opts.SendBufferSize)

	if err := s.svc.Register(id); err != nil {
		slog.Error("ws register failed", "conn", id, "err", err)
		_ = c.Close()
		return
	}
	s.hub.Add(c)
	slog.Info("connection opened", "conn", id)

	go c.writePump(s.opts.PingInterval)
	s.readLoop(c)

	// Disconnect cascade: unwind pair / room / waiting slot and notify the
	// peers that were affected.
	s.hub.Remove(id)
	out := s.svc.Disconnect(id)
	if out.PartnerID != "" {
		s.hub.Send(out.PartnerID, Message{Type: TypePartnerDisconnected})
	}
	s.emitRoomExit(out.RoomExit)
	_ = c.Close()
	slog.Info("connection closed", "conn", id)
}

func (s *Server) readLoop(c *client) {
	defer func() { _ = c.Close() }()

	pongWait := 2 * s.opts.PingInterval
	c.conn.SetReadLimit(s.opts.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("ws read error", "conn", c.id, "err", err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.dispatch(c, msg)
	}
}

// dispatch routes one inbound event. Relay payloads are forwarded verbatim;
// a missing partner or room means the payload is dropped silently, since
// signaling arriving just after teardown is an expected race.
func (s *Server) dispatch(c Conn, msg Message) {
	switch msg.Type {
	case TypeStartChat:
		s.handleStartChat(c)
	case TypeOffer, TypeAnswer, TypeICECandidate:
		if partner, ok := s.svc.Partner(c.ID()); ok {
			s.hub.Send(partner, Message{Type: msg.Type, Payload: msg.Payload})
		}
	case TypeSendMessage:
		if partner, ok := s.svc.Partner(c.ID()); ok {
			s.hub.Send(partner, newMessage(TypeReceiveMessage, ReceiveMessagePayload{
				Message: msg.Payload,
				From:    c.ID(),
			}))
		}
	case TypeSkip:
		s.handleSkip(c)
	case TypeCreateRoom:
		s.handleCreateRoom(c, msg.Payload)
	case TypeJoinRoom:
		s.handleJoinRoom(c, msg.Payload)
	case TypeLeaveRoom:
		s.handleLeaveRoom(c)
	case TypeRoomOffer, TypeRoomAnswer, TypeRoomICECandidate:
		s.handleRoomSignal(c, msg.Type, msg.Payload)
	case TypeRoomSendMessage:
		s.handleRoomChat(c, msg.Payload)
	case TypeGetPublicRooms:
		c.Enqueue(newMessage(TypeRoomPublicRoomsList, s.svc.ListPublicRooms()))
	default:
		slog.Debug("unknown event type", "conn", c.ID(), "type", msg.Type)
	}
}

func (s *Server) handleStartChat(c Conn) {
	out, err := s.svc.RequestMatch(c.ID())
	if err != nil {
		s.sendError(c, err)
		return
	}
	s.emitRoomExit(out.RoomExit)
	s.emitMatch(c, out)
}

// emitMatch notifies both sides of a pairing. The requester issued the match
// last, so it is the initiator and its partner the answerer; applying the
// rule in one place keeps both sides from ever producing an offer at once.
func (s *Server) emitMatch(c Conn, out service.MatchOutcome) {
	if out.Matched {
		c.Enqueue(newMessage(TypeChatStarted, ChatStartedPayload{Initiator: true, PartnerID: out.PartnerID}))
		s.hub.Send(out.PartnerID, newMessage(TypeChatStarted, ChatStartedPayload{Initiator: false, PartnerID: c.ID()}))
		slog.Info("paired", "initiator", c.ID(), "answerer", out.PartnerID)
		return
	}
	c.Enqueue(newMessage(TypeWaiting, WaitingPayload{Message: "Waiting for partner..."}))
}

func (s *Server) handleSkip(c Conn) {
	out, err := s.svc.Skip(c.ID())
	if err != nil {
		s.sendError(c, err)
		return
	}
	if out.FormerPartnerID != "" {
		s.hub.Send(out.FormerPartnerID, Message{Type: TypePartnerDisconnected})
	}
	s.emitMatch(c, out.Match)
}

func (s *Server) handleCreateRoom(c Conn, payload json.RawMessage) {
	var req CreateRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.Name == "" {
		s.sendError(c, domain.ErrInvalidState)
		return
	}
	out, err := s.svc.CreateRoom(c.ID(), req.Name, req.IsPrivate, req.MaxParticipants)
	if err != nil {
		s.sendError(c, err)
		return
	}
	c.Enqueue(newMessage(TypeRoomCreated, RoomCreatedPayload{
		RoomID:    out.RoomID,
		Name:      out.Name,
		IsPrivate: out.Private,
	}))
	if out.PublicChanged {
		s.pushPublicRooms()
	}
	slog.Info("room created", "room", out.RoomID, "private", out.Private, "creator", c.ID())
}

func (s *Server) handleJoinRoom(c Conn, payload json.RawMessage) {
	roomID := decodeRoomID(payload)
	if roomID == "" {
		s.sendError(c, domain.ErrRoomNotFound)
		return
	}
	out, err := s.svc.JoinRoom(c.ID(), roomID)
	if err != nil {
		s.sendError(c, err)
		return
	}
	if out.UnpairedPartnerID != "" {
		s.hub.Send(out.UnpairedPartnerID, Message{Type: TypePartnerDisconnected})
	}
	s.emitRoomExit(out.PriorLeave)

	s.hub.SendMany(out.Roster, newMessage(TypeRoomParticipantJoined, RoomParticipantPayload{
		ParticipantID:    c.ID(),
		ParticipantCount: out.Count,
	}))
	c.Enqueue(newMessage(TypeRoomJoined, RoomJoinedPayload{
		RoomID:       out.RoomID,
		Participants: out.Roster,
		IsCreator:    out.IsCreator,
	}))
}

func (s *Server) handleLeaveRoom(c Conn) {
	out, err := s.svc.LeaveRoom(c.ID())
	if err != nil {
		// leave with no membership is a no-op, not a fault
		return
	}
	s.emitRoomExit(&out)
}

// emitRoomExit notifies the remaining members of a departure and refreshes
// the public listing when the room set changed.
func (s *Server) emitRoomExit(out *service.LeaveOutcome) {
	if out == nil || out.RoomID == "" {
		return
	}
	if len(out.Remaining) > 0 {
		s.hub.SendMany(out.Remaining, newMessage(TypeRoomParticipantLeft, RoomParticipantPayload{
			ParticipantID:    out.LeftID,
			ParticipantCount: out.Count,
		}))
	}
	if out.PublicChanged {
		s.pushPublicRooms()
	}
}

func (s *Server) handleRoomSignal(c Conn, msgType string, payload json.RawMessage) {
	target, rewritten, err := rewriteRoomSignal(payload, c.ID())
	if err != nil || target == "" {
		return
	}
	// Forward only within the sender's room; anything else is dropped like
	// any other relay miss.
	if !s.svc.SameRoom(c.ID(), target) {
		return
	}
	s.hub.Send(target, Message{Type: msgType, Payload: rewritten})
}

func (s *Server) handleRoomChat(c Conn, payload json.RawMessage) {
	members, ok := s.svc.RoomMembers(c.ID())
	if !ok {
		return
	}
	// Echo to the sender too: every client renders from one authoritative feed.
	s.hub.SendMany(members, newMessage(TypeRoomReceiveMessage, RoomChatPayload{
		SenderID:  c.ID(),
		Message:   payload,
		Timestamp: time.Now().UnixMilli(),
	}))
}

func (s *Server) pushPublicRooms() {
	s.hub.Broadcast(newMessage(TypeRoomPublicRoomsList, s.svc.ListPublicRooms()))
}

// sendError reports a failure to the offending connection only. It never
// terminates the connection.
func (s *Server) sendError(c Conn, err error) {
	reason := ReasonInvalidState
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		reason = ReasonNotFound
	case errors.Is(err, domain.ErrRoomExists):
		reason = ReasonAlreadyExists
	case errors.Is(err, domain.ErrRoomFull):
		reason = ReasonRoomFull
	}
	c.Enqueue(newMessage(TypeRoomError, RoomErrorPayload{Reason: reason, Message: err.Error()}))
}

// decodeRoomID accepts either {"roomId": "..."} or a bare JSON string.
func decodeRoomID(payload json.RawMessage) string {
	var req JoinRoomRequest
	if err := json.Unmarshal(payload, &req); err == nil && req.RoomID != "" {
		return req.RoomID
	}
	var id string
	if err := json.Unmarshal(payload, &id); err == nil {
		return id
	}
	return ""
}

package ws

import "encoding/json"

// Client → server event types.
const (
	TypeStartChat        = "start_chat"
	TypeOffer            = "offer"
	TypeAnswer           = "answer"
	TypeICECandidate     = "ice-candidate"
	TypeSendMessage      = "send_message"
	TypeSkip             = "skip"
	TypeCreateRoom       = "create_room"
	TypeJoinRoom         = "join_room"
	TypeLeaveRoom        = "leave_room"
	TypeRoomOffer        = "room_offer"
	TypeRoomAnswer       = "room_answer"
	TypeRoomICECandidate = "room_ice-candidate"
	TypeRoomSendMessage  = "room_send_message"
	TypeGetPublicRooms   = "get_public_rooms"
)

// Server → client event types.
const (
	TypeWaiting               = "waiting"
	TypeChatStarted           = "chat_started"
	TypeReceiveMessage        = "receive_message"
	TypePartnerDisconnected   = "partner_disconnected"
	TypeRoomCreated           = "room_created"
	TypeRoomError             = "room_error"
	TypeRoomJoined            = "room_joined"
	TypeRoomParticipantJoined = "room_participant_joined"
	TypeRoomParticipantLeft   = "room_participant_left"
	TypeRoomReceiveMessage    = "room_receive_message"
	TypeRoomPublicRoomsList   = "room_public_rooms_list"
)

// Machine-readable reasons carried by room_error.
const (
	ReasonNotFound      = "not_found"
	ReasonAlreadyExists = "already_exists"
	ReasonRoomFull      = "room_full"
	ReasonInvalidState  = "invalid_state"
)

// Message is the wire envelope for every event in both directions. Payloads
// kept as RawMessage pass through the relay without ever being parsed.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// newMessage builds an outbound envelope, marshaling v into the payload.
func newMessage(t string, v any) Message {
	if v == nil {
		return Message{Type: t}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Message{Type: t}
	}
	return Message{Type: t, Payload: b}
}

type WaitingPayload struct {
	Message string `json:"message"`
}

type ChatStartedPayload struct {
	Initiator bool   `json:"initiator"`
	PartnerID string `json:"partnerId"`
}

type ReceiveMessagePayload struct {
	Message json.RawMessage `json:"message"`
	From    string          `json:"from"`
}

type CreateRoomRequest struct {
	Name            string `json:"name"`
	IsPrivate       bool   `json:"isPrivate"`
	MaxParticipants int    `json:"maxParticipants"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type RoomCreatedPayload struct {
	RoomID    string `json:"roomId"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
}

type RoomErrorPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type RoomJoinedPayload struct {
	RoomID       string   `json:"roomId"`
	Participants []string `json:"participants"`
	IsCreator    bool     `json:"isCreator"`
}

type RoomParticipantPayload struct {
	ParticipantID    string `json:"participantId"`
	ParticipantCount int    `json:"participantCount"`
}

type RoomChatPayload struct {
	SenderID  string          `json:"senderId"`
	Message   json.RawMessage `json:"message"`
	Timestamp int64           `json:"timestamp"`
}

// rewriteRoomSignal extracts the "to" field from a room signaling payload
// and replaces it with "from" set to senderID. The rest of the payload is
// carried through untouched.
func rewriteRoomSignal(payload json.RawMessage, senderID string) (target string, out json.RawMessage, err error) {
	var fields map[string]json.RawMessage
	if err = json.Unmarshal(payload, &fields); err != nil {
		return "", nil, err
	}
	if raw, ok := fields["to"]; ok {
		if err = json.Unmarshal(raw, &target); err != nil {
			return "", nil, err
		}
		delete(fields, "to")
	}
	from, _ := json.Marshal(senderID)
	fields["from"] = from

	out, err = json.Marshal(fields)
	return target, out, err
}

package ws

import "testing"

type stubConn struct {
	id     string
	inbox  []Message
	closed bool
	full   bool
}

func (s *stubConn) ID() string { return s.id }

func (s *stubConn) Enqueue(msg Message) bool {
	if s.full {
		s.closed = true
		return false
	}
	s.inbox = append(s.inbox, msg)
	return true
}

func (s *stubConn) Close() error {
	s.closed = true
	return nil
}

func TestHubSend(t *testing.T) {
	h := NewHub()
	a := &stubConn{id: "a"}
	h.Add(a)

	if !h.Send("a", Message{Type: TypeWaiting}) {
		t.Fatal("send to registered conn failed")
	}
	if len(a.inbox) != 1 || a.inbox[0].Type != TypeWaiting {
		t.Fatalf("inbox = %+v", a.inbox)
	}
	if h.Send("ghost", Message{Type: TypeWaiting}) {
		t.Fatal("send to unknown id reported delivery")
	}
}

func TestHubSendSlowConsumer(t *testing.T) {
	h := NewHub()
	a := &stubConn{id: "a", full: true}
	h.Add(a)

	if h.Send("a", Message{Type: TypeWaiting}) {
		t.Fatal("send to a full conn reported delivery")
	}
	if !a.closed {
		t.Fatal("slow consumer was not closed")
	}
}

func TestHubSendMany(t *testing.T) {
	h := NewHub()
	a := &stubConn{id: "a"}
	b := &stubConn{id: "b"}
	h.Add(a)
	h.Add(b)

	h.SendMany([]string{"a", "b", "gone"}, Message{Type: TypeRoomReceiveMessage})
	if len(a.inbox) != 1 || len(b.inbox) != 1 {
		t.Fatalf("inboxes: a=%d b=%d", len(a.inbox), len(b.inbox))
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	conns := []*stubConn{{id: "a"}, {id: "b"}, {id: "c"}}
	for _, c := range conns {
		h.Add(c)
	}
	h.Remove("b")

	h.Broadcast(Message{Type: TypeRoomPublicRoomsList})
	if len(conns[0].inbox) != 1 || len(conns[2].inbox) != 1 {
		t.Fatal("broadcast missed a live conn")
	}
	if len(conns[1].inbox) != 0 {
		t.Fatal("broadcast reached a removed conn")
	}
	if h.Len() != 2 {
		t.Fatalf("len = %d", h.Len())
	}
}

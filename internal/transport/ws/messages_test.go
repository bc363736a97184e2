package ws

import (
	"encoding/json"
	"testing"
)

func TestRewriteRoomSignal(t *testing.T) {
	payload := json.RawMessage(`{"to":"target-1","offer":{"type":"offer","sdp":"v=0"}}`)

	target, out, err := rewriteRoomSignal(payload, "sender-1")
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if target != "target-1" {
		t.Fatalf("target = %q", target)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(out, &fields); err != nil {
		t.Fatalf("unmarshal rewritten: %v", err)
	}
	if _, ok := fields["to"]; ok {
		t.Fatal("\"to\" leaked into the forwarded payload")
	}
	var from string
	if err := json.Unmarshal(fields["from"], &from); err != nil || from != "sender-1" {
		t.Fatalf("from = %q, err=%v", from, err)
	}
	// the opaque part is carried through byte-compatible
	if string(fields["offer"]) != `{"type":"offer","sdp":"v=0"}` {
		t.Fatalf("offer mangled: %s", fields["offer"])
	}
}

func TestRewriteRoomSignalMissingTarget(t *testing.T) {
	target, _, err := rewriteRoomSignal(json.RawMessage(`{"offer":{}}`), "s")
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if target != "" {
		t.Fatalf("target = %q, want empty", target)
	}
}

func TestDecodeRoomID(t *testing.T) {
	cases := []struct {
		payload string
		want    string
	}{
		{`{"roomId":"lounge"}`, "lounge"},
		{`"lounge"`, "lounge"},
		{`{"roomId":""}`, ""},
		{`{}`, ""},
		{`42`, ""},
	}
	for _, tc := range cases {
		if got := decodeRoomID(json.RawMessage(tc.payload)); got != tc.want {
			t.Fatalf("decodeRoomID(%s) = %q, want %q", tc.payload, got, tc.want)
		}
	}
}

func TestNewMessage(t *testing.T) {
	msg := newMessage(TypeChatStarted, ChatStartedPayload{Initiator: true, PartnerID: "p"})
	if msg.Type != TypeChatStarted {
		t.Fatalf("type = %q", msg.Type)
	}
	var p ChatStartedPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if !p.Initiator || p.PartnerID != "p" {
		t.Fatalf("payload = %+v", p)
	}

	if msg := newMessage(TypePartnerDisconnected, nil); msg.Payload != nil {
		t.Fatalf("nil payload marshaled to %s", msg.Payload)
	}
}

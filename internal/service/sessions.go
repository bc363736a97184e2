package service

import "github.com/peerwave/signaling-service/internal/domain"

// sessionTable holds the current 1:1 pairings as two directed entries per
// pair. Both directions are written and removed together, so a→b implies b→a
// at every observable point.
type sessionTable struct {
	partners map[string]string
}

func newSessionTable() *sessionTable {
	return &sessionTable{partners: make(map[string]string)}
}

func (t *sessionTable) set(a, b string) error {
	if _, ok := t.partners[a]; ok {
		return domain.ErrAlreadyPaired
	}
	if _, ok := t.partners[b]; ok {
		return domain.ErrAlreadyPaired
	}
	t.partners[a] = b
	t.partners[b] = a
	return nil
}

func (t *sessionTable) partner(id string) (string, bool) {
	p, ok := t.partners[id]
	return p, ok
}

// remove deletes both directions and returns the former partner, if any.
func (t *sessionTable) remove(id string) (string, bool) {
	p, ok := t.partners[id]
	if !ok {
		return "", false
	}
	delete(t.partners, id)
	delete(t.partners, p)
	return p, true
}

func (t *sessionTable) len() int {
	return len(t.partners)
}

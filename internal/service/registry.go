package service

import "github.com/peerwave/signaling-service/internal/domain"

// registry is the ground truth for which connection ids are live and what
// mode each one is in. Not safe for concurrent use on its own; the owning
// Service serializes access.
type registry struct {
	conns map[string]*domain.Connection
}

func newRegistry() *registry {
	return &registry{conns: make(map[string]*domain.Connection)}
}

func (r *registry) register(id string) error {
	if _, ok := r.conns[id]; ok {
		return domain.ErrAlreadyRegistered
	}
	r.conns[id] = &domain.Connection{ID: id, Mode: domain.ModeIdle}
	return nil
}

// unregister removes the connection and reports its prior mode. Removing an
// unknown id is a no-op.
func (r *registry) unregister(id string) (domain.Mode, bool) {
	c, ok := r.conns[id]
	if !ok {
		return "", false
	}
	delete(r.conns, id)
	return c.Mode, true
}

func (r *registry) exists(id string) bool {
	_, ok := r.conns[id]
	return ok
}

func (r *registry) mode(id string) (domain.Mode, bool) {
	c, ok := r.conns[id]
	if !ok {
		return "", false
	}
	return c.Mode, true
}

func (r *registry) setMode(id string, m domain.Mode) {
	if c, ok := r.conns[id]; ok {
		c.Mode = m
	}
}

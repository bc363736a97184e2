package service

// waitingPool is the FIFO of connections seeking a partner. It tolerates
// stale ids (since-disconnected or re-moded connections): they are skipped
// lazily at dequeue time instead of being scanned out on every disconnect.
type waitingPool struct {
	ids []string
}

func newWaitingPool() *waitingPool {
	return &waitingPool{}
}

func (p *waitingPool) push(id string) {
	p.ids = append(p.ids, id)
}

// popLive dequeues entries until one satisfies live and is not self.
// Discarded entries are dropped without side effects.
func (p *waitingPool) popLive(self string, live func(string) bool) (string, bool) {
	for len(p.ids) > 0 {
		id := p.ids[0]
		p.ids = p.ids[1:]
		if id == self || !live(id) {
			continue
		}
		return id, true
	}
	return "", false
}

// remove drops every occurrence of id. Used on disconnect so a dead entry
// cannot linger for the whole queue's lifetime.
func (p *waitingPool) remove(id string) {
	kept := p.ids[:0]
	for _, v := range p.ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	p.ids = kept
}

func (p *waitingPool) contains(id string) bool {
	for _, v := range p.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (p *waitingPool) len() int {
	return len(p.ids)
}

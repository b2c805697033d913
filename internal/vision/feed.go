package vision

import "sync"

type subscriber struct {
	owner string
	ch    chan []Vision
}

// feed fans snapshots out to subscribers. Each channel holds only the newest
// snapshot, so a slow reader skips intermediate ones.
type feed struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscriber
}

func newFeed() *feed {
	return &feed{subs: make(map[int]*subscriber)}
}

func (f *feed) add(owner string) (int, *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	sub := &subscriber{owner: owner, ch: make(chan []Vision, 1)}
	f.subs[f.next] = sub
	return f.next, sub
}

func (f *feed) remove(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub, ok := f.subs[id]; ok {
		delete(f.subs, id)
		close(sub.ch)
	}
}

func (f *feed) hasSubscribers(owner string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.owner == owner {
			return true
		}
	}
	return false
}

func (f *feed) publish(owner string, snapshot []Vision) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.owner == owner {
			sub.offer(snapshot)
		}
	}
}

func (f *feed) send(id int, snapshot []Vision) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub, ok := f.subs[id]; ok {
		sub.offer(snapshot)
	}
}

// offer replaces any unread snapshot. Callers hold feed.mu.
func (s *subscriber) offer(snapshot []Vision) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snapshot
}

func (f *feed) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

package engine

// recentSet is a bounded set of event IDs with FIFO eviction. Each shard
// worker owns one per account, so no locking is needed.
type recentSet struct {
	capacity int
	order    []string
	next     int
	seen     map[string]struct{}
}

func newRecentSet(capacity int) *recentSet {
	if capacity <= 0 {
		capacity = 1
	}
	return &recentSet{
		capacity: capacity,
		order:    make([]string, 0, capacity),
		seen:     make(map[string]struct{}, capacity),
	}
}

// contains reports whether id was recently added.
func (s *recentSet) contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// add records id, evicting the oldest entry once the set is full.
func (s *recentSet) add(id string) {
	if s.contains(id) {
		return
	}
	if len(s.order) < s.capacity {
		s.order = append(s.order, id)
	} else {
		delete(s.seen, s.order[s.next])
		s.order[s.next] = id
		s.next = (s.next + 1) % s.capacity
	}
	s.seen[id] = struct{}{}
}

// len returns the number of remembered IDs.
func (s *recentSet) len() int {
	return len(s.seen)
}

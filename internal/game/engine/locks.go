package engine

import "sync"

// campaignLocks serializes turn processing per campaign. Two actions on
// the same campaign must not interleave, or continuity detection would
// read an unstable "last turn".
type campaignLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCampaignLocks() *campaignLocks {
	return &campaignLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the campaign and returns the unlock func.
func (l *campaignLocks) acquire(campaignID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[campaignID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[campaignID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

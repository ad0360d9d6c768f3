package cooldown

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	defaultShardCount = 16
	// pruneHighWater is the per-shard entry count past which RecordUse
	// sweeps out expired deadlines before inserting.
	pruneHighWater = 1024
)

// Tracker maps (caller, action type) pairs to the earliest instant the caller
// may use that action again. Lookups against absent pairs report "not on
// cooldown". Entries are never removed eagerly; shards prune expired
// deadlines lazily once they grow past a high-water mark, so long-lived
// servers don't accumulate records for departed callers.
type Tracker struct {
	shards []shard
	count  uint32
}

// shard holds a slice of the deadline table behind its own mutex.
type shard struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
}

// NewTracker creates a Tracker with the default shard count.
func NewTracker() *Tracker {
	return NewTrackerWithShards(defaultShardCount)
}

// NewTrackerWithShards creates a Tracker with the given number of shards.
func NewTrackerWithShards(shardCount int) *Tracker {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	t := &Tracker{
		shards: make([]shard, shardCount),
		count:  uint32(shardCount),
	}
	for i := range t.shards {
		t.shards[i].deadlines = make(map[string]time.Time)
	}
	return t
}

// OnCooldown reports whether caller is still inside the cooldown window for
// actionType at instant now. No record means no cooldown.
func (t *Tracker) OnCooldown(caller, actionType string, now time.Time) bool {
	key := trackerKey(caller, actionType)
	sh := t.shard(key)

	sh.mu.Lock()
	deadline, ok := sh.deadlines[key]
	sh.mu.Unlock()

	return ok && now.Before(deadline)
}

// Remaining returns how long until caller may use actionType again. Zero when
// not on cooldown.
func (t *Tracker) Remaining(caller, actionType string, now time.Time) time.Duration {
	key := trackerKey(caller, actionType)
	sh := t.shard(key)

	sh.mu.Lock()
	deadline, ok := sh.deadlines[key]
	sh.mu.Unlock()

	if !ok || !now.Before(deadline) {
		return 0
	}
	return deadline.Sub(now)
}

// RecordUse stamps the next-eligible instant as now+d, overwriting any prior
// record. A zero or negative duration is skipped entirely so cooldown-free
// actions never pollute the table.
func (t *Tracker) RecordUse(caller, actionType string, now time.Time, d time.Duration) {
	if d <= 0 {
		return
	}
	key := trackerKey(caller, actionType)
	sh := t.shard(key)

	sh.mu.Lock()
	if len(sh.deadlines) >= pruneHighWater {
		sh.pruneLocked(now)
	}
	sh.deadlines[key] = now.Add(d)
	sh.mu.Unlock()
}

// Len returns the total number of stored records, expired included.
func (t *Tracker) Len() int {
	n := 0
	for i := range t.shards {
		sh := &t.shards[i]
		sh.mu.Lock()
		n += len(sh.deadlines)
		sh.mu.Unlock()
	}
	return n
}

func (t *Tracker) shard(key string) *shard {
	return &t.shards[uint32(xxhash.Sum64String(key))%t.count]
}

func (sh *shard) pruneLocked(now time.Time) {
	for key, deadline := range sh.deadlines {
		if !now.Before(deadline) {
			delete(sh.deadlines, key)
		}
	}
}

func trackerKey(caller, actionType string) string {
	return caller + "\x00" + actionType
}

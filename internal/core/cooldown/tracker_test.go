package cooldown

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_BasicWindow(t *testing.T) {
	tr := NewTracker()
	now := time.Now()

	assert.False(t, tr.OnCooldown("u1", "move", now), "no record means no cooldown")

	tr.RecordUse("u1", "move", now, time.Second)
	assert.True(t, tr.OnCooldown("u1", "move", now.Add(500*time.Millisecond)))
	assert.Equal(t, 500*time.Millisecond, tr.Remaining("u1", "move", now.Add(500*time.Millisecond)))

	// deadline is inclusive-exclusive: at now+d the caller is eligible again
	assert.False(t, tr.OnCooldown("u1", "move", now.Add(time.Second)))
	assert.Zero(t, tr.Remaining("u1", "move", now.Add(time.Second)))
}

func TestTracker_KeysAreIndependent(t *testing.T) {
	tr := NewTracker()
	now := time.Now()

	tr.RecordUse("u1", "move", now, time.Second)
	assert.False(t, tr.OnCooldown("u2", "move", now), "other caller unaffected")
	assert.False(t, tr.OnCooldown("u1", "attack", now), "other action unaffected")
}

func TestTracker_ZeroDurationIsNotRecorded(t *testing.T) {
	tr := NewTracker()
	now := time.Now()

	tr.RecordUse("u1", "wave", now, 0)
	tr.RecordUse("u1", "nod", now, -time.Second)
	assert.Zero(t, tr.Len())
	assert.False(t, tr.OnCooldown("u1", "wave", now))
}

func TestTracker_OverwriteOnReuse(t *testing.T) {
	tr := NewTracker()
	now := time.Now()

	tr.RecordUse("u1", "move", now, time.Second)
	later := now.Add(2 * time.Second)
	tr.RecordUse("u1", "move", later, time.Second)

	assert.True(t, tr.OnCooldown("u1", "move", later.Add(900*time.Millisecond)))
	assert.False(t, tr.OnCooldown("u1", "move", later.Add(time.Second)))
}

func TestTracker_LazyPrune(t *testing.T) {
	tr := NewTrackerWithShards(1)
	now := time.Now()

	for i := 0; i < pruneHighWater; i++ {
		tr.RecordUse(fmt.Sprintf("u%d", i), "move", now, time.Millisecond)
	}
	assert.Equal(t, pruneHighWater, tr.Len())

	// every deadline has expired; the next insert sweeps them out
	tr.RecordUse("fresh", "move", now.Add(time.Second), time.Minute)
	assert.Equal(t, 1, tr.Len())
	assert.True(t, tr.OnCooldown("fresh", "move", now.Add(2*time.Second)))
}

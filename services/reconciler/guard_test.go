package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleFlight_AcquireRelease(t *testing.T) {
	var g singleFlight

	assert.True(t, g.tryAcquire())
	assert.False(t, g.release(), "no queued run means a clean release")
	assert.True(t, g.tryAcquire(), "guard must be free again")
}

func TestSingleFlight_TriggerWhileRunningQueuesOneRerun(t *testing.T) {
	var g singleFlight

	assert.True(t, g.tryAcquire())

	// Several triggers land mid-pass; they coalesce into one queued rerun.
	assert.False(t, g.tryAcquire())
	assert.False(t, g.tryAcquire())
	assert.False(t, g.tryAcquire())

	assert.True(t, g.release(), "queued rerun keeps the guard held")
	assert.False(t, g.release(), "single rerun, then free")

	assert.True(t, g.tryAcquire())
}

func TestSingleFlight_QueueDuringRerun(t *testing.T) {
	var g singleFlight

	assert.True(t, g.tryAcquire())
	assert.False(t, g.tryAcquire())
	assert.True(t, g.release())

	// A trigger during the rerun queues again.
	assert.False(t, g.tryAcquire())
	assert.True(t, g.release())
	assert.False(t, g.release())
}

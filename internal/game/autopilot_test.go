package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAutoPilotAdvancesDays(t *testing.T) {
	gm := newTestManager(t)
	start := gm.CurrentDate()

	autoPilot := NewAutoPilotSystem(gm, 5*time.Millisecond)
	autoPilot.Start()

	assert.Eventually(t, func() bool {
		return gm.CurrentDate().Sub(start) >= 3*24*time.Hour
	}, 2*time.Second, 5*time.Millisecond)

	autoPilot.Stop()
	stopped := gm.CurrentDate()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, gm.CurrentDate())
}

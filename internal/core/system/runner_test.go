package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }
func (r recorder) Update(time.Duration) {
	*r.log = append(*r.log, r.name)
}

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"cleanup", PhaseCleanup, &log})
	r.Register(recorder{"player", PhaseUpdate, &log})
	r.Register(recorder{"spawn", PhasePreUpdate, &log})
	r.Register(recorder{"enemy", PhaseUpdate, &log})
	r.Register(recorder{"projectile", PhaseUpdate, &log})

	r.Tick(time.Second / 60)
	assert.Equal(t, []string{"spawn", "player", "enemy", "projectile", "cleanup"}, log)

	log = log[:0]
	r.TickPhase(PhaseUpdate, 0)
	assert.Equal(t, []string{"player", "enemy", "projectile"}, log)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "post-update", PhasePostUpdate.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

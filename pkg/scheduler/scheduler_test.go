package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPruner struct {
	before []time.Time
}

func (p *recordingPruner) PruneLevelContent(ctx context.Context, before time.Time) (int64, error) {
	p.before = append(p.before, before)
	return 1, nil
}

func TestPruneExpired_UsesTTL(t *testing.T) {
	pruner := &recordingPruner{}
	s := New(pruner, 2*time.Hour, 0)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.PruneExpired()

	require.Len(t, pruner.before, 1)
	assert.Equal(t, now.Add(-2*time.Hour), pruner.before[0])
	assert.Equal(t, time.Hour, s.interval)
}

func TestStart_DisabledWithoutTTL(t *testing.T) {
	pruner := &recordingPruner{}
	s := New(pruner, 0, time.Minute)

	require.NoError(t, s.Start())
	s.Stop()
	assert.Empty(t, pruner.before)
}

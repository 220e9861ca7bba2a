package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mohammad-safakhou/spacebio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// bleve starts its analysis workers from a package init; they live for the
// whole process.
var ignoreBleveWorkers = goleak.IgnoreTopFunction("github.com/blevesearch/bleve/index.AnalysisWorker")

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) ([]models.ArticleRef, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return []models.ArticleRef{{Title: "t", Link: "https://x.test/a"}}, nil
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler("every tuesday", &countingRefresher{}, 0, nil)
	assert.Error(t, err)
}

func TestSchedulerNext(t *testing.T) {
	s, err := NewScheduler("@hourly", &countingRefresher{}, 0, nil)
	require.NoError(t, err)
	from := time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), s.Next(from))

	s, err = NewScheduler("30 2 * * *", &countingRefresher{}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 2, 30, 0, 0, time.UTC), s.Next(from))
}

func TestSchedulerRefreshesOnSchedule(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreBleveWorkers)

	idx := &countingRefresher{}
	s, err := NewScheduler("* * * * * * *", idx, time.Second, nil)
	require.NoError(t, err)
	s.Start(context.Background())
	require.Eventually(t, func() bool { return idx.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	s.Stop()
	s.Stop()
}

func TestSchedulerSurvivesRefreshErrors(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreBleveWorkers)

	idx := &countingRefresher{err: errors.New("csv unreachable")}
	s, err := NewScheduler("* * * * * * *", idx, time.Second, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return idx.calls.Load() >= 2 }, 4*time.Second, 20*time.Millisecond)
	cancel()
	s.Stop()
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s, err := NewScheduler("@daily", &countingRefresher{}, 0, nil)
	require.NoError(t, err)
	s.Stop()
}

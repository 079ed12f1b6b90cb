package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/animefeed/internal/api"
)

type fakeCounter struct {
	mu     gosync.Mutex
	counts []int
	errs   []error
	calls  int
}

func (f *fakeCounter) UnreadCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	n := 0
	if i < len(f.counts) {
		n = f.counts[i]
	}
	return n, err
}

func next(t *testing.T, p *Poller) any {
	t.Helper()
	done := make(chan any, 1)
	go func() { done <- p.WaitForNextResult()() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for poll result")
		return nil
	}
}

func TestPollerDeliversCounts(t *testing.T) {
	c := &fakeCounter{counts: []int{3, 5}}
	p := New(c, time.Hour, nil)
	require.NotNil(t, p.Start())
	defer p.Stop()
	assert.Nil(t, p.Start(), "second start is a no-op")

	msg, ok := next(t, p).(UnreadCountMsg)
	require.True(t, ok)
	assert.Equal(t, 3, msg.Count)
	assert.NoError(t, msg.Err)

	p.Refresh()
	msg = next(t, p).(UnreadCountMsg)
	assert.Equal(t, 5, msg.Count)
	assert.Equal(t, 5, p.Last().Count)
}

func TestPollerKeepsLastCountOnError(t *testing.T) {
	boom := errors.New("boom")
	c := &fakeCounter{counts: []int{4, 0}, errs: []error{nil, boom}}
	p := New(c, time.Hour, nil)
	p.Start()
	defer p.Stop()

	next(t, p)
	p.Refresh()
	msg := next(t, p).(UnreadCountMsg)
	assert.ErrorIs(t, msg.Err, boom)
	assert.Equal(t, 4, msg.Count)
}

func TestPollerStopsOnAuthError(t *testing.T) {
	c := &fakeCounter{errs: []error{&api.AuthError{Message: "expired"}}}
	p := New(c, time.Hour, nil)
	p.Start()

	msg, ok := next(t, p).(AuthErrorMsg)
	require.True(t, ok)
	assert.NotEmpty(t, msg.Message)
	assert.Eventually(t, func() bool { return !p.Running() }, time.Second, 10*time.Millisecond)
}

func TestStopReleasesPendingWait(t *testing.T) {
	c := &fakeCounter{counts: []int{4}}
	p := New(c, time.Hour, nil)
	p.Start()
	next(t, p)

	wait := p.WaitForNextResult()
	done := make(chan any, 1)
	go func() { done <- wait() }()

	p.Stop()
	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("wait still blocked after Stop")
	}

	assert.Nil(t, p.WaitForNextResult()(), "stopped poller does not block")
}

func TestPollerTicks(t *testing.T) {
	c := &fakeCounter{counts: []int{1, 2, 3}}
	p := New(c, 20*time.Millisecond, nil)
	p.Start()
	defer p.Stop()

	next(t, p)
	msg := next(t, p).(UnreadCountMsg)
	assert.Equal(t, 2, msg.Count)
}

func TestDefaultInterval(t *testing.T) {
	p := New(&fakeCounter{}, 0, nil)
	assert.Equal(t, DefaultInterval, p.interval)
}

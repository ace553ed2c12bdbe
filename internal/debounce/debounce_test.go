package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	value string
	at    time.Time
}

type recorder struct {
	mu   sync.Mutex
	got  []delivery
	done chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{}, 16)}
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.got = append(r.got, delivery{value: v, at: time.Now()})
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) deliveries() []delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delivery(nil), r.got...)
}

func TestDebouncer_OnlyLastValueSurvives(t *testing.T) {
	rec := newRecorder()
	d := New(500*time.Millisecond, rec.record)

	var last time.Time
	for _, term := range []string{"bat", "batm", "batman"} {
		d.Trigger(term)
		last = time.Now()
		time.Sleep(100 * time.Millisecond)
	}

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value was never delivered")
	}
	// Give a stray timer the chance to misfire.
	time.Sleep(600 * time.Millisecond)

	got := rec.deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, "batman", got[0].value)
	assert.GreaterOrEqual(t, got[0].at.Sub(last), 500*time.Millisecond)
}

func TestDebouncer_ZeroDelayPassesThrough(t *testing.T) {
	var got []string
	d := New(0, func(v string) { got = append(got, v) })

	d.Trigger("a")
	d.Trigger("ab")

	assert.Equal(t, []string{"a", "ab"}, got)
	assert.False(t, d.Pending())
}

func TestDebouncer_SettledValuesAreDeliveredSeparately(t *testing.T) {
	rec := newRecorder()
	d := New(30*time.Millisecond, rec.record)

	d.Trigger("first")
	<-rec.done
	d.Trigger("second")
	<-rec.done

	got := rec.deliveries()
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].value)
	assert.Equal(t, "second", got[1].value)
}

func TestDebouncer_Flush(t *testing.T) {
	rec := newRecorder()
	d := New(time.Hour, rec.record)

	assert.False(t, d.Flush(), "nothing pending yet")

	d.Trigger("dune")
	assert.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.False(t, d.Pending())

	got := rec.deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, "dune", got[0].value)
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	rec := newRecorder()
	d := New(20*time.Millisecond, rec.record)

	d.Trigger("dropped")
	d.Stop()
	d.Trigger("ignored")

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.deliveries())
	assert.False(t, d.Pending())
}

func TestDebouncer_ConcurrentTriggers(t *testing.T) {
	rec := newRecorder()
	d := New(50*time.Millisecond, rec.record)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Trigger("x")
		}()
	}
	wg.Wait()

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("no delivery after concurrent triggers")
	}
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, rec.deliveries(), 1)
}

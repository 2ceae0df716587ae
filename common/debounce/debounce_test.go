package debounce_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cardtavern/storefront/common/debounce"
)

func TestSchedule_OnlyLastRuns(t *testing.T) {
	d := debounce.New(30 * time.Millisecond)

	var mu sync.Mutex
	var ran []string

	d.Schedule(func() {
		mu.Lock()
		ran = append(ran, "first")
		mu.Unlock()
	})
	d.Schedule(func() {
		mu.Lock()
		ran = append(ran, "second")
		mu.Unlock()
	})
	d.Schedule(func() {
		mu.Lock()
		ran = append(ran, "third")
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"third"}, ran)
}

func TestSchedule_SeparateWindowsBothRun(t *testing.T) {
	d := debounce.New(10 * time.Millisecond)

	var mu sync.Mutex
	count := 0

	d.Schedule(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})
	time.Sleep(50 * time.Millisecond)

	d.Schedule(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, count)
}

func TestStop_CancelsPending(t *testing.T) {
	d := debounce.New(20 * time.Millisecond)

	var mu sync.Mutex
	count := 0

	d.Schedule(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})
	d.Stop()

	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, count)
}

func TestSuperseded(t *testing.T) {
	d := debounce.New(time.Hour)

	first := d.Schedule(func() {})
	assert.False(t, d.Superseded(first))

	d.Schedule(func() {})
	assert.True(t, d.Superseded(first))
}

package testutil

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSteppingClock_Advances(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := NewSteppingClock(start, time.Second)

	assert.True(t, clock.Now().Equal(start))
	assert.True(t, clock.Now().Equal(start.Add(time.Second)))
	assert.True(t, clock.Now().Equal(start.Add(2*time.Second)))
}

func TestSteppingClock_Reset(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := NewSteppingClock(start, time.Minute)

	clock.Now()
	clock.Now()
	clock.Reset(start)
	assert.True(t, clock.Now().Equal(start))
}

func TestSteppingClock_ConcurrentTimestampsDistinct(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := NewSteppingClock(start, time.Millisecond)

	const n = 50
	stamps := make([]time.Time, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stamps[i] = clock.Now()
		}(i)
	}
	wg.Wait()

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	for i := 1; i < n; i++ {
		assert.True(t, stamps[i].After(stamps[i-1]), "timestamps must be distinct")
	}
}

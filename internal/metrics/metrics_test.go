package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	var c Counter
	c.Inc()
	c.Inc()
	assert.Equal(t, uint64(2), c.Load())
}

func TestCounterConcurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(50), c.Load())
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	assert.Greater(t, timer.Duration(), time.Duration(0))
}

func TestRequestStats(t *testing.T) {
	var s RequestStats

	s.Record(nil)
	s.Record(errors.New("boom"))
	s.Record(nil)

	assert.Equal(t, uint64(3), s.Sent.Load())
	assert.Equal(t, uint64(1), s.Failed.Load())
}

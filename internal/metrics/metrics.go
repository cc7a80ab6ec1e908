package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// RequestStats tracks outbound gateway traffic. Safe for concurrent use.
type RequestStats struct {
	Sent   Counter
	Failed Counter
}

func (s *RequestStats) Record(err error) {
	s.Sent.Inc()
	if err != nil {
		s.Failed.Inc()
	}
}

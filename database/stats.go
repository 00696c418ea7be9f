package database

import (
	"fmt"
	"sync/atomic"
	"time"
)

// QueryStats counts statements run through an adapter. It is safe for
// concurrent use and is usually shared by every adapter of a pool.
type QueryStats struct {
	Queries       atomic.Int64
	Execs         atomic.Int64
	TotalDuration atomic.Int64 // nanoseconds
	SlowQueries   atomic.Int64
	Errors        atomic.Int64
}

// Snapshot returns a point in time copy of the counters.
func (s *QueryStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries:       s.Queries.Load(),
		Execs:         s.Execs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset zeroes every counter.
func (s *QueryStats) Reset() {
	s.Queries.Store(0)
	s.Execs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

func (s *QueryStats) record(exec bool, d, slow time.Duration, err error) {
	if exec {
		s.Execs.Add(1)
	} else {
		s.Queries.Add(1)
	}
	s.TotalDuration.Add(int64(d))
	if slow > 0 && d >= slow {
		s.SlowQueries.Add(1)
	}
	if err != nil {
		s.Errors.Add(1)
	}
}

// StatsSnapshot is a copy of QueryStats.
type StatsSnapshot struct {
	Queries       int64
	Execs         int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// Avg returns the mean statement duration.
func (s StatsSnapshot) Avg() time.Duration {
	n := s.Queries + s.Execs
	if n == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(n)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.Queries, s.Execs, s.TotalDuration, s.Avg(), s.SlowQueries, s.Errors)
}

// Package plan turns rate and concurrency schedules into sequences of send
// timestamps. A plan is a lazy sequence of offsets from test start; the
// driver pulls it in lockstep with the ammunition sequence.
package plan

import (
	"math"
	"time"
)

// Plan yields the offsets, measured from test start, at which successive
// shots should be dispatched. ok is false once the schedule is exhausted.
type Plan interface {
	Next() (offset time.Duration, ok bool)
}

// segment is a span of the schedule with linearly interpolated rate, the
// same shape step and spike patterns compile down to.
type segment struct {
	start    time.Duration
	duration time.Duration
	fromRate float64
	toRate   float64
	count    int64 // shots produced within this segment
}

func newSegment(start, duration time.Duration, fromRate, toRate float64) segment {
	d := duration.Seconds()
	count := int64(math.Floor((fromRate + toRate) / 2 * d))
	return segment{start: start, duration: duration, fromRate: fromRate, toRate: toRate, count: count}
}

// shot returns the offset of the k-th shot within the segment. For a ramp
// the cumulative shot count by time t is from*t + (to-from)*t²/(2d); shot k
// fires when that crosses k.
func (s segment) shot(k int64) (time.Duration, bool) {
	if k >= s.count {
		return 0, false
	}
	if s.fromRate == s.toRate {
		return time.Duration(float64(k) / s.fromRate * float64(time.Second)), true
	}
	d := s.duration.Seconds()
	c := (s.toRate - s.fromRate) / (2 * d)
	t := (-s.fromRate + math.Sqrt(s.fromRate*s.fromRate+4*c*float64(k))) / (2 * c)
	return time.Duration(t * float64(time.Second)), true
}

// rpsPlan walks segments in order, emitting each segment's shots offset by
// the segment start.
type rpsPlan struct {
	segments []segment
	seg      int
	k        int64
}

func (p *rpsPlan) Next() (time.Duration, bool) {
	for p.seg < len(p.segments) {
		s := p.segments[p.seg]
		if t, ok := s.shot(p.k); ok {
			p.k++
			return s.start + t, true
		}
		p.seg++
		p.k = 0
	}
	return 0, false
}

// Total returns the number of shots the plan will produce.
func (p *rpsPlan) Total() int64 {
	var n int64
	for _, s := range p.segments {
		n += s.count
	}
	return n
}

// finitePlan yields a precomputed list of offsets.
type finitePlan struct {
	offsets []time.Duration
	i       int
}

func (p *finitePlan) Next() (time.Duration, bool) {
	if p.i >= len(p.offsets) {
		return 0, false
	}
	off := p.offsets[p.i]
	p.i++
	return off, true
}

// unlimitedPlan starts shots immediately and never ends. It backs the
// default concurrency schedule: pacing is left entirely to the consumer.
type unlimitedPlan struct{}

func (unlimitedPlan) Next() (time.Duration, bool) { return 0, true }

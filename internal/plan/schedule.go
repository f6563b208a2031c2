package plan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var schedulePattern = regexp.MustCompile(`(\w+)\(([^)]*)\)`)

// NewRPS compiles an rps schedule into a timestamp plan. The grammar is a
// sequence of steps:
//
//	const(rps, duration)
//	line(from, to, duration)
//	step(from, to, step, duration)
//
// Durations accept Go syntax ("30s", "2m") or bare seconds.
func NewRPS(schedule string) (Plan, error) {
	segments, err := compile(schedule)
	if err != nil {
		return nil, fmt.Errorf("rps schedule: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("rps schedule %q is empty", schedule)
	}
	return &rpsPlan{segments: segments}, nil
}

// NewInstances compiles an instances schedule into a plan of instance start
// offsets. An empty schedule means unlimited immediate starts. const(n, d)
// starts n instances at the segment start and holds; line(from, to, d)
// starts from instances immediately and spreads the rest evenly over d.
func NewInstances(schedule string) (Plan, error) {
	if strings.TrimSpace(schedule) == "" {
		return unlimitedPlan{}, nil
	}
	segments, err := compile(schedule)
	if err != nil {
		return nil, fmt.Errorf("instances schedule: %w", err)
	}
	var offsets []time.Duration
	for _, s := range segments {
		from := int64(s.fromRate)
		to := int64(s.toRate)
		for i := int64(0); i < from; i++ {
			offsets = append(offsets, s.start)
		}
		if to > from {
			spacing := s.duration / time.Duration(to-from)
			for i := int64(1); i <= to-from; i++ {
				offsets = append(offsets, s.start+spacing*time.Duration(i))
			}
		}
	}
	return &finitePlan{offsets: offsets}, nil
}

// compile expands the schedule string into rate segments laid end to end.
func compile(schedule string) ([]segment, error) {
	matches := schedulePattern.FindAllStringSubmatch(schedule, -1)
	if len(matches) == 0 && strings.TrimSpace(schedule) != "" {
		return nil, fmt.Errorf("cannot parse %q", schedule)
	}
	var segments []segment
	var offset time.Duration
	for _, m := range matches {
		kind := strings.ToLower(m[1])
		args := splitArgs(m[2])
		switch kind {
		case "const":
			if len(args) != 2 {
				return nil, fmt.Errorf("const takes (rps, duration), got %q", m[0])
			}
			rps, err := parseRate(args[0])
			if err != nil {
				return nil, err
			}
			dur, err := parseScheduleDuration(args[1])
			if err != nil {
				return nil, err
			}
			segments = append(segments, newSegment(offset, dur, rps, rps))
			offset += dur
		case "line":
			if len(args) != 3 {
				return nil, fmt.Errorf("line takes (from, to, duration), got %q", m[0])
			}
			from, err := parseRate(args[0])
			if err != nil {
				return nil, err
			}
			to, err := parseRate(args[1])
			if err != nil {
				return nil, err
			}
			dur, err := parseScheduleDuration(args[2])
			if err != nil {
				return nil, err
			}
			segments = append(segments, newSegment(offset, dur, from, to))
			offset += dur
		case "step":
			if len(args) != 4 {
				return nil, fmt.Errorf("step takes (from, to, step, duration), got %q", m[0])
			}
			from, err := parseRate(args[0])
			if err != nil {
				return nil, err
			}
			to, err := parseRate(args[1])
			if err != nil {
				return nil, err
			}
			inc, err := parseRate(args[2])
			if err != nil {
				return nil, err
			}
			dur, err := parseScheduleDuration(args[3])
			if err != nil {
				return nil, err
			}
			if inc <= 0 {
				return nil, fmt.Errorf("step increment must be > 0 in %q", m[0])
			}
			for r := from; r <= to; r += inc {
				segments = append(segments, newSegment(offset, dur, r, r))
				offset += dur
			}
		default:
			return nil, fmt.Errorf("unknown schedule step %q", kind)
		}
	}
	return segments, nil
}

func splitArgs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseRate(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("bad rate %q: %w", raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("rate must be >= 0, got %q", raw)
	}
	return v, nil
}

// parseScheduleDuration accepts Go duration syntax or a bare number of
// seconds.
func parseScheduleDuration(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("duration must be >= 0, got %q", raw)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("bad duration %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0, got %q", raw)
	}
	return d, nil
}

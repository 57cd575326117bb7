package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// Course start tokens live on a fixed 15-minute grid.
const (
	firstStartMinutes = 9 * 60
	lastStartMinutes  = 18*60 + 15
	startStepMinutes  = 15
)

// Default course shape when the level lookup has nothing better.
const (
	defaultDurationMinutes = 85
	defaultHeadcount       = 20
)

var (
	longLevels  = map[string]bool{"Terminale Spécialité": true, "SI": true, "Terminale ES": true, "1ère Spécialité": true, "AP 2nd": true}
	shortLevels = map[string]bool{"AP PP": true, "1ère ES": true}
)

// ParseClock converts a time-of-day token such as "9h30" or "9:30" into
// minutes from midnight.
func ParseClock(token string) (int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, fmt.Errorf("empty time token")
	}

	sep := "h"
	if !strings.Contains(token, "h") {
		sep = ":"
	}
	parts := strings.SplitN(token, sep, 2)
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("parse hour in %q: %w", token, err)
	}
	minutes := 0
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		minutes, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, fmt.Errorf("parse minutes in %q: %w", token, err)
		}
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time token %q out of range", token)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes from midnight as an "9h05" style token.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}

// StartTokens returns the ordered set of allowed course start times.
func StartTokens() []string {
	var tokens []string
	for m := firstStartMinutes; m <= lastStartMinutes; m += startStepMinutes {
		tokens = append(tokens, FormatClock(m))
	}
	return tokens
}

// IsAllowedStart reports whether token is one of the allowed start times.
func IsAllowedStart(token string) bool {
	m, err := ParseClock(token)
	if err != nil {
		return false
	}
	return m >= firstStartMinutes && m <= lastStartMinutes && m%startStepMinutes == 0
}

// DurationForLevel returns the lesson length in minutes for a class level.
func DurationForLevel(level string) int {
	switch {
	case longLevels[level]:
		return 110
	case shortLevels[level]:
		return 55
	}
	return defaultDurationMinutes
}

// Interval is a half-open [Start, End) range in minutes of day.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether the two intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return !(iv.End <= other.Start || other.End <= iv.Start)
}

// Request is one raw classroom-resource request as captured at intake.
// Ref is an opaque caller identifier carried through to the Course.
type Request struct {
	Ref               string
	Teacher           string
	Level             string
	StartToken        string
	SelectedMaterials string
	Description       string
	ComputersNeeded   int
	RoomTypeHint      string
	Exam              bool
	Title             string
}

// Course is the normalized scheduling need derived from a Request.
// Immutable for the duration of one planning run.
type Course struct {
	ID        string
	Ref       string
	Teacher   string
	Level     string
	Title     string
	Subject   Subject
	Start     int
	Duration  int
	Headcount int
	Needs     Equipment
}

// Interval returns the occupied time range of the course.
func (c Course) Interval() Interval {
	return Interval{Start: c.Start, End: c.Start + c.Duration}
}

// Theoretical reports whether the course requests no equipment at all; such
// courses relax room-type compatibility so they do not starve specialized
// rooms.
func (c Course) Theoretical() bool {
	return c.Needs.IsZero()
}

// Describe renders a short human-readable descriptor used for unassigned
// reporting.
func (c Course) Describe() string {
	return fmt.Sprintf("%s - %s à %s", c.Teacher, c.Level, FormatClock(c.Start))
}

// BuildCourses normalizes raw requests into Courses: material extraction,
// subject inference, level-based duration and headcount, start parsing.
// Requests with an unparsable start token fall back to the configured
// default token rather than being dropped.
func (p *Planner) BuildCourses(requests []Request) []Course {
	courses := make([]Course, 0, len(requests))
	for i, req := range requests {
		needs := ExtractNeeds(req.SelectedMaterials)
		if req.ComputersNeeded > needs.Computers {
			needs.Computers = req.ComputersNeeded
		}
		if req.Exam {
			needs.ExamDesks = 1
		}

		start, err := ParseClock(req.StartToken)
		if err != nil {
			start, _ = ParseClock(p.cfg.DefaultStartToken)
		}

		courses = append(courses, Course{
			ID:        fmt.Sprintf("%s_%d", req.Teacher, i),
			Ref:       req.Ref,
			Teacher:   req.Teacher,
			Level:     req.Level,
			Title:     req.Title,
			Subject:   InferSubject(req.RoomTypeHint, req.Description),
			Start:     start,
			Duration:  DurationForLevel(req.Level),
			Headcount: p.headcountFor(req.Level),
			Needs:     needs,
		})
	}
	return courses
}

func (p *Planner) headcountFor(level string) int {
	if n, ok := p.cfg.HeadcountByLevel[level]; ok && n > 0 {
		return n
	}
	return defaultHeadcount
}

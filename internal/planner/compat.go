package planner

import "time"

// Weights tunes the soft scoring used by the objective. Feasibility never
// depends on it. All values are integer because CP-SAT objectives are
// integral; RoomUsage must stay small relative to the specialization
// weights so it only breaks ties.
type Weights struct {
	// Specialization scores for equipment-needing courses.
	EquippedMatch   int
	DeclaredMatch   int
	NeutralMixed    int
	OppositeSubject int

	// Specialization scores for theoretical courses, biased toward mixed
	// rooms to keep specialized rooms free.
	TheoryMixed    int
	TheoryDeclared int
	TheoryOther    int

	// Bonus per same-teacher course pair landing in the same room.
	TeacherReuse int

	// Tie-break bonus per distinct room in use.
	RoomUsage int
}

// DefaultWeights returns the tuning the engine ships with.
func DefaultWeights() Weights {
	return Weights{
		EquippedMatch:   10,
		DeclaredMatch:   8,
		NeutralMixed:    6,
		OppositeSubject: 2,
		TheoryMixed:     7,
		TheoryDeclared:  5,
		TheoryOther:     6,
		TeacherReuse:    10,
		RoomUsage:       1,
	}
}

// Score rates how well a room suits a course. Rooms genuinely equipped for
// the course's subject rank above rooms that merely declare the type;
// neutral mixed rooms sit in between; rooms of the opposite discipline rank
// last. Theoretical courses invert the bias toward mixed rooms.
func (w Weights) Score(r Room, c Course) int {
	if c.Theoretical() {
		switch {
		case r.Type == SubjectMixed:
			return w.TheoryMixed
		case r.Type == c.Subject:
			return w.TheoryDeclared
		}
		return w.TheoryOther
	}

	if c.Subject == SubjectMixed {
		if r.Type == SubjectMixed {
			return w.DeclaredMatch
		}
		return w.NeutralMixed
	}

	if r.Gear.EquippedFor(c.Subject) {
		return w.EquippedMatch
	}
	switch r.Type {
	case c.Subject:
		return w.DeclaredMatch
	case SubjectMixed:
		return w.NeutralMixed
	}
	return w.OppositeSubject
}

// compatible is the hard feasibility predicate between a course and a room.
// Theoretical courses only need seats; equipment-needing courses also need
// a type match (or a mixed room) and full equipment coverage. The special
// room additionally requires an open availability window.
func (p *Planner) compatible(r Room, c Course, day time.Weekday, windows []Window) bool {
	if r.Capacity < c.Headcount {
		return false
	}
	if !c.Theoretical() {
		switch c.Subject {
		case SubjectChemistry:
			if r.Type != SubjectChemistry && r.Type != SubjectMixed {
				return false
			}
		case SubjectPhysics:
			if r.Type != SubjectPhysics && r.Type != SubjectMixed {
				return false
			}
		}
		if !r.Gear.Covers(c.Needs) {
			return false
		}
	}
	if p.cfg.SpecialRoom != "" && r.Name == p.cfg.SpecialRoom {
		return p.specialRoomOpen(day, c.Interval(), windows)
	}
	return true
}

// compatibilityMatrix precomputes the predicate for every (course, room)
// pair so the model builder and the greedy fallback agree on feasibility.
func (p *Planner) compatibilityMatrix(courses []Course, rooms []Room, day time.Weekday, windows []Window) [][]bool {
	matrix := make([][]bool, len(courses))
	for i, c := range courses {
		matrix[i] = make([]bool, len(rooms))
		for s, r := range rooms {
			matrix[i][s] = p.compatible(r, c, day, windows)
		}
	}
	return matrix
}

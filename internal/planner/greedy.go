package planner

import "sort"

// greedyAssign is the best-effort degrade path used when the solver finds
// no feasible assignment at all. Courses are walked chronologically; each
// takes the first compatible room that is still free over its interval,
// with mixed rooms tried first for theoretical courses. No backtracking.
func greedyAssign(courses []Course, rooms []Room, compat [][]bool) map[int]int {
	order := make([]int, len(courses))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return courses[order[a]].Start < courses[order[b]].Start
	})

	booked := make([][]Interval, len(rooms))
	assignment := make(map[int]int, len(courses))

	for _, i := range order {
		course := courses[i]
		for _, s := range scanOrder(rooms, course.Theoretical()) {
			if !compat[i][s] {
				continue
			}
			if overlapsAny(booked[s], course.Interval()) {
				continue
			}
			assignment[i] = s
			booked[s] = append(booked[s], course.Interval())
			break
		}
	}
	return assignment
}

// scanOrder yields room indexes in catalog order, with mixed rooms first
// when the course is theoretical.
func scanOrder(rooms []Room, theoretical bool) []int {
	if !theoretical {
		order := make([]int, len(rooms))
		for s := range rooms {
			order[s] = s
		}
		return order
	}
	order := make([]int, 0, len(rooms))
	for s, r := range rooms {
		if r.Type == SubjectMixed {
			order = append(order, s)
		}
	}
	for s, r := range rooms {
		if r.Type != SubjectMixed {
			order = append(order, s)
		}
	}
	return order
}

func overlapsAny(intervals []Interval, iv Interval) bool {
	for _, other := range intervals {
		if iv.Overlaps(other) {
			return true
		}
	}
	return false
}

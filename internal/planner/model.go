package planner

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

type varKey struct {
	course int
	room   int
}

// assignmentModel holds the CP-SAT builder plus the decision variables,
// one boolean per feasible (course, room) pair.
type assignmentModel struct {
	builder *cpmodel.Builder
	vars    map[varKey]cpmodel.BoolVar
}

// buildModel assembles the constraint model:
//   - x[i,s] exists only where compat[i][s] holds;
//   - every course with at least one candidate room gets exactly one;
//   - two time-overlapping courses never share a room;
//   - objective = specialization + same-teacher room reuse + a small
//     room-usage diversity tie-breaker.
//
// Courses without any candidate room simply get no variables; the caller
// surfaces them as unassignable.
func (p *Planner) buildModel(courses []Course, rooms []Room, compat [][]bool) *assignmentModel {
	w := p.cfg.Weights
	b := cpmodel.NewCpModelBuilder()
	vars := make(map[varKey]cpmodel.BoolVar)
	objective := cpmodel.NewLinearExpr()

	for i, c := range courses {
		for s, r := range rooms {
			if !compat[i][s] {
				continue
			}
			v := b.NewBoolVar().WithName(fmt.Sprintf("x_%d_%d", i, s))
			vars[varKey{i, s}] = v
			objective.AddTerm(v, int64(w.Score(r, c)))
		}
	}

	for i := range courses {
		var candidates []cpmodel.BoolVar
		for s := range rooms {
			if v, ok := vars[varKey{i, s}]; ok {
				candidates = append(candidates, v)
			}
		}
		if len(candidates) > 0 {
			b.AddExactlyOne(candidates...)
		}
	}

	for i := 0; i < len(courses); i++ {
		for j := i + 1; j < len(courses); j++ {
			if !courses[i].Interval().Overlaps(courses[j].Interval()) {
				continue
			}
			for s := range rooms {
				vi, iok := vars[varKey{i, s}]
				vj, jok := vars[varKey{j, s}]
				if iok && jok {
					b.AddAtMostOne(vi, vj)
				}
			}
		}
	}

	byTeacher := make(map[string][]int)
	for i, c := range courses {
		byTeacher[c.Teacher] = append(byTeacher[c.Teacher], i)
	}
	for _, indexes := range byTeacher {
		for a := 0; a < len(indexes); a++ {
			for bIdx := a + 1; bIdx < len(indexes); bIdx++ {
				i, j := indexes[a], indexes[bIdx]
				for s := range rooms {
					vi, iok := vars[varKey{i, s}]
					vj, jok := vars[varKey{j, s}]
					if !iok || !jok {
						continue
					}
					reuse := b.NewBoolVar().WithName(fmt.Sprintf("reuse_%d_%d_%d", i, j, s))
					b.AddBoolAnd(vi, vj).OnlyEnforceIf(reuse)
					b.AddBoolOr(vi.Not(), vj.Not()).OnlyEnforceIf(reuse.Not())
					objective.AddTerm(reuse, int64(w.TeacherReuse))
				}
			}
		}
	}

	for s := range rooms {
		var uses []cpmodel.LinearArgument
		for i := range courses {
			if v, ok := vars[varKey{i, s}]; ok {
				uses = append(uses, v)
			}
		}
		if len(uses) == 0 {
			continue
		}
		used := b.NewBoolVar().WithName(fmt.Sprintf("room_used_%d", s))
		b.AddMaxEquality(used, uses...)
		objective.AddTerm(used, int64(w.RoomUsage))
	}

	b.Maximize(objective)

	return &assignmentModel{builder: b, vars: vars}
}

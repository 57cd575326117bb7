package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"
)

// solveResult carries the classified solver outcome. assignment maps the
// course index to the room index and is populated only for
// OPTIMAL/FEASIBLE statuses.
type solveResult struct {
	status     cmpb.CpSolverStatus
	assignment map[int]int
}

func (r *solveResult) accepted() bool {
	return r.status == cmpb.CpSolverStatus_OPTIMAL || r.status == cmpb.CpSolverStatus_FEASIBLE
}

func (r *solveResult) optimal() bool {
	return r.status == cmpb.CpSolverStatus_OPTIMAL
}

// solve runs the bounded CP-SAT search in a worker goroutine. The wall
// limit is the configured timeout, clamped to the caller's context
// deadline; cancellation abandons the wait (the solver itself still runs
// out its clock in the background, which is why the limit is also passed
// down as a solver parameter).
func (p *Planner) solve(ctx context.Context, m *assignmentModel) (*solveResult, error) {
	modelProto, err := m.builder.Model()
	if err != nil {
		return nil, fmt.Errorf("finalize cp model: %w", err)
	}

	limit := p.cfg.SolveTimeout.Seconds()
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline).Seconds(); remaining < limit {
			limit = remaining
		}
	}
	if limit <= 0 {
		return nil, context.DeadlineExceeded
	}

	params := &sppb.SatParameters{
		MaxTimeInSeconds: proto.Float64(limit),
	}

	type outcome struct {
		response *cmpb.CpSolverResponse
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		response, err := cpmodel.SolveCpModelWithParameters(modelProto, params)
		done <- outcome{response: response, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("cp-sat solve: %w", out.err)
		}
		result := &solveResult{status: out.response.GetStatus()}
		if result.accepted() {
			result.assignment = make(map[int]int, len(m.vars))
			for key, v := range m.vars {
				if cpmodel.SolutionBooleanValue(out.response, v) {
					result.assignment[key.course] = key.room
				}
			}
		}
		return result, nil
	}
}

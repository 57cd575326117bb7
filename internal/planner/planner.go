package planner

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Input errors: malformed or missing data is the only thing the engine
// treats as a hard failure. Scheduling tension never raises.
var (
	ErrNoRequests  = errors.New("no requests for the target date")
	ErrNoRooms     = errors.New("no rooms configured")
	ErrNoPlacement = errors.New("fallback could not place a single course")
)

// Outcome classifies which path produced the plan.
type Outcome string

const (
	OutcomeOptimal  Outcome = "optimal"
	OutcomeFeasible Outcome = "feasible"
	OutcomeFallback Outcome = "fallback"
)

// Config is the injectable engine configuration; every scoring constant
// and behavioural default lives here rather than in literals.
type Config struct {
	// SolveTimeout caps the CP-SAT wall clock. 30-60s is the intended
	// range.
	SolveTimeout time.Duration
	// SpecialRoom names the one room gated by weekly availability
	// windows. Empty disables the gate.
	SpecialRoom string
	// OpenWhenUnconfigured decides whether the special room is usable
	// when no windows are configured at all.
	OpenWhenUnconfigured bool
	// DefaultStartToken substitutes for requests with a missing or
	// unparsable start time.
	DefaultStartToken string
	// HeadcountByLevel overrides the default headcount per class level.
	HeadcountByLevel map[string]int
	Weights          Weights
}

// Planner runs one-day room assignment: normalization, feasibility,
// bounded optimization and the greedy degrade path. A Planner is
// stateless across runs and safe for concurrent use.
type Planner struct {
	cfg    Config
	logger *zap.Logger
	solver func(context.Context, *assignmentModel) (*solveResult, error)
}

// New builds a Planner, filling config gaps with engine defaults.
func New(cfg Config, logger *zap.Logger) *Planner {
	if cfg.SolveTimeout <= 0 {
		cfg.SolveTimeout = 45 * time.Second
	}
	if cfg.DefaultStartToken == "" {
		cfg.DefaultStartToken = "9h00"
	}
	if (cfg.Weights == Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Planner{cfg: cfg, logger: logger}
	p.solver = p.solve
	return p
}

// Input is everything one planning run consumes. All of it is read once
// and never mutated.
type Input struct {
	Weekday  time.Weekday
	Requests []Request
	Rooms    []RoomRecord
	// SpecialRoomWindows gates the distinguished room; ignored for all
	// others.
	SpecialRoomWindows []Window
}

// Assignment binds one course to the room that hosts it.
type Assignment struct {
	Course Course
	Room   string
}

// Plan is the sole output of a run: every course either appears in
// Assignments with exactly one room, or in Unassigned.
type Plan struct {
	Outcome      Outcome
	SolverStatus string
	Assignments  []Assignment
	Unassigned   []Course
}

// AssignedCount returns how many courses found a room.
func (p *Plan) AssignedCount() int {
	return len(p.Assignments)
}

// UnassignedDescriptions renders the human-readable unassigned list for
// reporting.
func (p *Plan) UnassignedDescriptions() []string {
	out := make([]string, 0, len(p.Unassigned))
	for _, c := range p.Unassigned {
		out = append(out, c.Describe())
	}
	return out
}

// Plan executes one full planning run. It returns an error only for empty
// input or a totally failed fallback; partial assignments are a normal
// result, reported through the Unassigned list.
func (p *Planner) Plan(ctx context.Context, input Input) (*Plan, error) {
	if len(input.Requests) == 0 {
		return nil, ErrNoRequests
	}
	if len(input.Rooms) == 0 {
		return nil, ErrNoRooms
	}

	courses := p.BuildCourses(input.Requests)
	rooms := AdaptRooms(input.Rooms)
	compat := p.compatibilityMatrix(courses, rooms, input.Weekday, input.SpecialRoomWindows)

	model := p.buildModel(courses, rooms, compat)
	result, err := p.solver(ctx, model)
	if err != nil {
		// Cancellation belongs to the caller; anything else the solver
		// chokes on degrades to the greedy path like a failure status.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		p.logger.Warn("solver failed, falling back to greedy", zap.Error(err))
		return p.fallback(courses, rooms, compat, "ERROR")
	}

	if result.accepted() {
		plan := p.collect(courses, rooms, result.assignment)
		plan.SolverStatus = result.status.String()
		plan.Outcome = OutcomeFeasible
		if result.optimal() {
			plan.Outcome = OutcomeOptimal
		}
		p.logger.Info("planning solved",
			zap.String("status", plan.SolverStatus),
			zap.Int("assigned", plan.AssignedCount()),
			zap.Int("unassigned", len(plan.Unassigned)),
		)
		return plan, nil
	}

	// INFEASIBLE and every other failure status degrade identically to
	// the greedy path.
	p.logger.Warn("solver produced no assignment, falling back to greedy",
		zap.String("status", result.status.String()),
	)
	return p.fallback(courses, rooms, compat, result.status.String())
}

// fallback runs the greedy placement and wraps it as a degraded plan.
func (p *Planner) fallback(courses []Course, rooms []Room, compat [][]bool, status string) (*Plan, error) {
	assignment := greedyAssign(courses, rooms, compat)
	if len(assignment) == 0 {
		return nil, ErrNoPlacement
	}
	plan := p.collect(courses, rooms, assignment)
	plan.SolverStatus = status
	plan.Outcome = OutcomeFallback
	return plan, nil
}

// collect splits courses into assigned and unassigned, ordered by start
// time for stable reporting.
func (p *Planner) collect(courses []Course, rooms []Room, assignment map[int]int) *Plan {
	plan := &Plan{}
	for i, c := range courses {
		if s, ok := assignment[i]; ok {
			plan.Assignments = append(plan.Assignments, Assignment{Course: c, Room: rooms[s].Name})
		} else {
			plan.Unassigned = append(plan.Unassigned, c)
		}
	}
	sort.SliceStable(plan.Assignments, func(a, b int) bool {
		return plan.Assignments[a].Course.Start < plan.Assignments[b].Course.Start
	})
	sort.SliceStable(plan.Unassigned, func(a, b int) bool {
		return plan.Unassigned[a].Start < plan.Unassigned[b].Start
	})
	return plan
}

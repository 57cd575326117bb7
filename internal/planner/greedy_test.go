package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedyAssignNoDoubleBooking(t *testing.T) {
	p := New(Config{}, nil)
	rooms := []Room{chemRoom, mixedRoom}
	courses := []Course{
		{Teacher: "A", Subject: SubjectChemistry, Headcount: 20, Start: 540, Duration: 110, Needs: Equipment{FumeHoods: 1}},
		{Teacher: "B", Subject: SubjectChemistry, Headcount: 20, Start: 600, Duration: 110, Needs: Equipment{FumeHoods: 1}},
		{Teacher: "C", Subject: SubjectChemistry, Headcount: 20, Start: 700, Duration: 85, Needs: Equipment{FumeHoods: 1}},
	}
	compat := p.compatibilityMatrix(courses, rooms, time.Monday, nil)

	assignment := greedyAssign(courses, rooms, compat)

	// Only chemRoom can host these; the overlapping pair cannot share it.
	require.Len(t, assignment, 2)
	assert.Equal(t, 0, assignment[0])
	assert.Equal(t, 0, assignment[2])
	_, overlapped := assignment[1]
	assert.False(t, overlapped)

	booked := map[int][]Interval{}
	for i, s := range assignment {
		for _, other := range booked[s] {
			assert.False(t, courses[i].Interval().Overlaps(other), "room %d double booked", s)
		}
		booked[s] = append(booked[s], courses[i].Interval())
	}
}

func TestGreedyAssignRespectsCompatibility(t *testing.T) {
	p := New(Config{}, nil)
	rooms := []Room{physRoom, chemRoom}
	courses := []Course{
		{Teacher: "A", Subject: SubjectChemistry, Headcount: 20, Start: 540, Duration: 85, Needs: Equipment{Sinks: 1}},
	}
	compat := p.compatibilityMatrix(courses, rooms, time.Monday, nil)

	assignment := greedyAssign(courses, rooms, compat)

	require.Len(t, assignment, 1)
	assert.Equal(t, 1, assignment[0], "must skip the incompatible physics room")
}

func TestGreedyAssignTheoreticalPrefersMixedRooms(t *testing.T) {
	p := New(Config{}, nil)
	rooms := []Room{chemRoom, mixedRoom}
	courses := []Course{
		{Teacher: "A", Subject: SubjectChemistry, Headcount: 20, Start: 540, Duration: 85},
	}
	compat := p.compatibilityMatrix(courses, rooms, time.Monday, nil)

	assignment := greedyAssign(courses, rooms, compat)

	require.Len(t, assignment, 1)
	assert.Equal(t, 1, assignment[0], "mixed room scanned first for a theoretical course")
}

func TestGreedyAssignChronologicalOrder(t *testing.T) {
	p := New(Config{}, nil)
	rooms := []Room{chemRoom}
	// Later course listed first; the earlier one must still win the room.
	courses := []Course{
		{Teacher: "A", Subject: SubjectChemistry, Headcount: 20, Start: 600, Duration: 110, Needs: Equipment{FumeHoods: 1}},
		{Teacher: "B", Subject: SubjectChemistry, Headcount: 20, Start: 540, Duration: 110, Needs: Equipment{FumeHoods: 1}},
	}
	compat := p.compatibilityMatrix(courses, rooms, time.Monday, nil)

	assignment := greedyAssign(courses, rooms, compat)

	require.Len(t, assignment, 1)
	assert.Equal(t, 0, assignment[1])
}

func TestGreedyAssignNothingCompatible(t *testing.T) {
	p := New(Config{}, nil)
	rooms := []Room{{Name: "B01", Type: SubjectMixed, Capacity: 5}}
	courses := []Course{
		{Teacher: "A", Subject: SubjectMixed, Headcount: 20, Start: 540, Duration: 85},
	}
	compat := p.compatibilityMatrix(courses, rooms, time.Monday, nil)

	assert.Empty(t, greedyAssign(courses, rooms, compat))
}

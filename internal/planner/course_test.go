package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		token   string
		want    int
		wantErr bool
	}{
		{"9h30", 570, false},
		{"9h00", 540, false},
		{"18h15", 1095, false},
		{"9:30", 570, false},
		{"14h", 840, false},
		{"", 0, true},
		{"25h00", 0, true},
		{"9h75", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseClock(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStartTokens(t *testing.T) {
	tokens := StartTokens()

	require.Len(t, tokens, 38)
	assert.Equal(t, "9h00", tokens[0])
	assert.Equal(t, "18h15", tokens[len(tokens)-1])
	for _, tok := range tokens {
		assert.True(t, IsAllowedStart(tok), tok)
	}
}

func TestIsAllowedStart(t *testing.T) {
	assert.True(t, IsAllowedStart("9h00"))
	assert.True(t, IsAllowedStart("13h45"))
	assert.False(t, IsAllowedStart("8h45"))
	assert.False(t, IsAllowedStart("18h30"))
	assert.False(t, IsAllowedStart("9h10"))
	assert.False(t, IsAllowedStart("nonsense"))
}

func TestDurationForLevel(t *testing.T) {
	assert.Equal(t, 110, DurationForLevel("Terminale Spécialité"))
	assert.Equal(t, 110, DurationForLevel("SI"))
	assert.Equal(t, 110, DurationForLevel("AP 2nd"))
	assert.Equal(t, 55, DurationForLevel("AP PP"))
	assert.Equal(t, 55, DurationForLevel("1ère ES"))
	assert.Equal(t, 85, DurationForLevel("2nde"))
	assert.Equal(t, 85, DurationForLevel(""))
}

func TestIntervalOverlaps(t *testing.T) {
	a := Interval{Start: 540, End: 650}

	assert.True(t, a.Overlaps(Interval{Start: 600, End: 700}))
	assert.True(t, a.Overlaps(Interval{Start: 500, End: 560}))
	assert.True(t, a.Overlaps(Interval{Start: 560, End: 600}))
	assert.False(t, a.Overlaps(Interval{Start: 650, End: 760}))
	assert.False(t, a.Overlaps(Interval{Start: 400, End: 540}))
}

func TestBuildCourses(t *testing.T) {
	p := New(Config{}, nil)

	requests := []Request{
		{
			Teacher:           "Durand",
			Level:             "Terminale Spécialité",
			StartToken:        "9h30",
			SelectedMaterials: "hotte, évier",
			Description:       "Titrage acide base",
		},
		{
			Teacher:         "Martin",
			Level:           "AP PP",
			StartToken:      "pas une heure",
			ComputersNeeded: 12,
			Exam:            true,
		},
	}

	courses := p.BuildCourses(requests)
	require.Len(t, courses, 2)

	chem := courses[0]
	assert.Equal(t, "Durand_0", chem.ID)
	assert.Equal(t, 570, chem.Start)
	assert.Equal(t, 110, chem.Duration)
	assert.Equal(t, 20, chem.Headcount)
	assert.Equal(t, SubjectChemistry, chem.Subject)
	assert.Equal(t, Equipment{FumeHoods: 1, Sinks: 1}, chem.Needs)
	assert.False(t, chem.Theoretical())

	exam := courses[1]
	assert.Equal(t, 540, exam.Start, "unparsable start falls back to the default token")
	assert.Equal(t, 55, exam.Duration)
	assert.Equal(t, 12, exam.Needs.Computers)
	assert.Equal(t, 1, exam.Needs.ExamDesks)
}

func TestBuildCoursesHeadcountOverride(t *testing.T) {
	p := New(Config{HeadcountByLevel: map[string]int{"SI": 15}}, nil)

	courses := p.BuildCourses([]Request{
		{Teacher: "Petit", Level: "SI", StartToken: "10h00"},
		{Teacher: "Petit", Level: "2nde", StartToken: "10h00"},
	})

	require.Len(t, courses, 2)
	assert.Equal(t, 15, courses[0].Headcount)
	assert.Equal(t, 20, courses[1].Headcount)
}

func TestCourseDescribe(t *testing.T) {
	c := Course{Teacher: "Durand", Level: "1ère ES", Start: 570}
	assert.Equal(t, "Durand - 1ère ES à 9h30", c.Describe())
}

package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNeeds(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		want     Equipment
	}{
		{
			name:     "empty selection is theoretical",
			selected: "   ",
			want:     Equipment{},
		},
		{
			name:     "comma separated french items",
			selected: "hotte, évier, bec électrique",
			want:     Equipment{FumeHoods: 1, Sinks: 1, ElectricBurners: 1},
		},
		{
			name:     "bullet list with newlines",
			selected: "- oscilloscope\n- banc optique\n- ordinateur",
			want:     Equipment{Oscilloscopes: 1, OpticalBenches: 1, Computers: 1},
		},
		{
			name:     "english synonyms",
			selected: "fume hood; sink; printer",
			want:     Equipment{FumeHoods: 1, Sinks: 1, Printers: 1},
		},
		{
			name:     "exam desks",
			selected: "tables examen",
			want:     Equipment{ExamDesks: 1},
		},
		{
			name:     "duplicates do not accumulate",
			selected: "hotte, hotte, hotte",
			want:     Equipment{FumeHoods: 1},
		},
		{
			name:     "unknown items are ignored",
			selected: "tableau blanc, craie",
			want:     Equipment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNeeds(tt.selected))
		})
	}
}

func TestEquipmentCovers(t *testing.T) {
	room := Equipment{Sinks: 4, FumeHoods: 2, ElectricBurners: 8}

	assert.True(t, room.Covers(Equipment{Sinks: 1, FumeHoods: 1}))
	assert.True(t, room.Covers(Equipment{}))
	assert.False(t, room.Covers(Equipment{OpticalBenches: 1}))
	assert.False(t, room.Covers(Equipment{Sinks: 5}))
}

func TestEquipmentEquippedFor(t *testing.T) {
	chem := Equipment{FumeHoods: 2, Sinks: 6}
	phys := Equipment{OpticalBenches: 8, Oscilloscopes: 4}
	bare := Equipment{Computers: 12}

	assert.True(t, chem.EquippedFor(SubjectChemistry))
	assert.False(t, chem.EquippedFor(SubjectPhysics))
	assert.True(t, phys.EquippedFor(SubjectPhysics))
	assert.False(t, phys.EquippedFor(SubjectChemistry))
	assert.False(t, bare.EquippedFor(SubjectPhysics))
	assert.False(t, bare.EquippedFor(SubjectMixed))
}

func TestInferSubject(t *testing.T) {
	tests := []struct {
		name        string
		hint        string
		description string
		want        Subject
	}{
		{"explicit physics hint wins", "Physique", "dosage acide base", SubjectPhysics},
		{"explicit chemistry hint wins", "chimie", "circuit et oscilloscope", SubjectChemistry},
		{"chemistry keywords", "", "Titrage d'une solution acide", SubjectChemistry},
		{"physics keywords", "", "Étude d'un circuit avec oscilloscope", SubjectPhysics},
		{"tie resolves to mixed", "", "séance de révision", SubjectMixed},
		{"empty description resolves to mixed", "", "", SubjectMixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSubject(tt.hint, tt.description))
		})
	}
}

func TestNormalizeSubject(t *testing.T) {
	assert.Equal(t, SubjectPhysics, NormalizeSubject(" Physique "))
	assert.Equal(t, SubjectChemistry, NormalizeSubject("CHIMIE"))
	assert.Equal(t, SubjectMixed, NormalizeSubject("banalisée"))
	assert.Equal(t, SubjectMixed, NormalizeSubject(""))
}

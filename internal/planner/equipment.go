package planner

import "strings"

// Subject classifies the discipline a course or room leans toward.
type Subject string

const (
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
	SubjectMixed     Subject = "mixed"
)

// NormalizeSubject maps free-form room type labels onto a Subject.
// Unknown or empty labels default to mixed.
func NormalizeSubject(raw string) Subject {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "physique", "physics":
		return SubjectPhysics
	case "chimie", "chemistry":
		return SubjectChemistry
	default:
		return SubjectMixed
	}
}

// Equipment is the fixed-shape equipment vector shared by courses (needs)
// and rooms (capabilities). Counts are non-negative; a zero vector on a
// course marks it as theoretical.
type Equipment struct {
	Computers          int `json:"computers"`
	Sinks              int `json:"sinks"`
	FumeHoods          int `json:"fume_hoods"`
	OpticalBenches     int `json:"optical_benches"`
	Oscilloscopes      int `json:"oscilloscopes"`
	ElectricBurners    int `json:"electric_burners"`
	FiltrationSupports int `json:"filtration_supports"`
	Printers           int `json:"printers"`
	ExamDesks          int `json:"exam_desks"`
}

// IsZero reports whether no equipment is requested at all.
func (e Equipment) IsZero() bool {
	return e == Equipment{}
}

// Covers reports whether every component of need is satisfied by e.
func (e Equipment) Covers(need Equipment) bool {
	return need.Computers <= e.Computers &&
		need.Sinks <= e.Sinks &&
		need.FumeHoods <= e.FumeHoods &&
		need.OpticalBenches <= e.OpticalBenches &&
		need.Oscilloscopes <= e.Oscilloscopes &&
		need.ElectricBurners <= e.ElectricBurners &&
		need.FiltrationSupports <= e.FiltrationSupports &&
		need.Printers <= e.Printers &&
		need.ExamDesks <= e.ExamDesks
}

// EquippedFor reports whether the vector carries the signature gear of a
// subject, independently of the room's declared type. Mixed has no
// signature gear.
func (e Equipment) EquippedFor(s Subject) bool {
	switch s {
	case SubjectPhysics:
		return e.OpticalBenches > 0 || e.Oscilloscopes > 0
	case SubjectChemistry:
		return e.FumeHoods > 0 || e.ElectricBurners > 0 || e.FiltrationSupports > 0 || e.Sinks > 0
	}
	return false
}

// ExtractNeeds parses a selected-materials description into an equipment
// vector. The input may be empty, comma separated, multi-line, or a
// "- item" bullet list; matching is case-insensitive keyword/phrase based
// and tolerates French and English synonyms. Whatever comes out is
// authoritative downstream; the engine never second-guesses it.
func ExtractNeeds(selected string) Equipment {
	var needs Equipment
	if strings.TrimSpace(selected) == "" {
		return needs
	}

	normalized := strings.NewReplacer("\r\n", ",", "\n", ",", ";", ",").Replace(selected)
	for _, part := range strings.Split(normalized, ",") {
		item := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "-")))
		if item == "" {
			continue
		}
		switch {
		case containsAny(item, "ordinateur", "computer", "pc"):
			needs.Computers = max(needs.Computers, 1)
		case containsAny(item, "evier", "évier", "lavabo", "sink", "basin"):
			needs.Sinks = max(needs.Sinks, 1)
		case containsAny(item, "hotte", "fume hood"):
			needs.FumeHoods = max(needs.FumeHoods, 1)
		case containsAny(item, "banc optique", "optique", "optical bench", "optical"):
			needs.OpticalBenches = max(needs.OpticalBenches, 1)
		case containsAny(item, "oscilloscope", "oscillo"):
			needs.Oscilloscopes = max(needs.Oscilloscopes, 1)
		case containsAny(item, "bec", "électrique", "electrique", "burner"):
			needs.ElectricBurners = max(needs.ElectricBurners, 1)
		case containsAny(item, "filtration", "support"):
			needs.FiltrationSupports = max(needs.FiltrationSupports, 1)
		case containsAny(item, "imprimante", "printer"):
			needs.Printers = max(needs.Printers, 1)
		case containsAny(item, "examen", "exam"):
			needs.ExamDesks = max(needs.ExamDesks, 1)
		}
	}
	return needs
}

// subjectKeywords drive the fallback inference when no room-type hint is
// supplied with a request.
var (
	chemistryKeywords = []string{"chimie", "chimique", "dosage", "titrage", "réaction", "reaction", "acide", "solution", "précipité", "synthèse", "molécule"}
	physicsKeywords   = []string{"physique", "optique", "mécanique", "mecanique", "oscilloscope", "circuit", "électricité", "electricite", "onde", "lentille", "pendule"}
)

// InferSubject resolves a course's subject affinity from the explicit room
// type hint when present, otherwise by keyword scoring of the description.
// Ties and empty descriptions resolve to mixed.
func InferSubject(roomTypeHint, description string) Subject {
	switch strings.ToLower(strings.TrimSpace(roomTypeHint)) {
	case "physique", "physics":
		return SubjectPhysics
	case "chimie", "chemistry":
		return SubjectChemistry
	}

	text := strings.ToLower(description)
	var chem, phys int
	for _, kw := range chemistryKeywords {
		if strings.Contains(text, kw) {
			chem++
		}
	}
	for _, kw := range physicsKeywords {
		if strings.Contains(text, kw) {
			phys++
		}
	}
	switch {
	case chem > phys:
		return SubjectChemistry
	case phys > chem:
		return SubjectPhysics
	}
	return SubjectMixed
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

package diag

// Stats counts results per severity.
type Stats struct {
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Suggestions int `json:"suggestions"`
}

func (s *Stats) Add(sev Severity) {
	switch sev {
	case SevError:
		s.Errors++
	case SevWarning:
		s.Warnings++
	default:
		s.Suggestions++
	}
}

func (s Stats) Total() int {
	return s.Errors + s.Warnings + s.Suggestions
}

// Demerits weighs the counts 5/3/1 for error/warning/suggestion.
func (s Stats) Demerits() int {
	return s.Errors*SevError.Demerit() + s.Warnings*SevWarning.Demerit() + s.Suggestions*SevSuggestion.Demerit()
}

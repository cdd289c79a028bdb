package badge

// CriteriaScanner measures the progress of a user for one criteria type.
type CriteriaScanner interface {
	// Type returns the criteria type which this scanner handles.
	Type() CriteriaType

	// Scan returns the value compared with the threshold of the criteria.
	Scan(stats *Stats) int
}

type statScanner struct {
	criteriaType CriteriaType
	value        func(*Stats) int
}

func (s statScanner) Type() CriteriaType {
	return s.criteriaType
}

func (s statScanner) Scan(stats *Stats) int {
	return s.value(stats)
}

// DefaultScanners returns a scanner for every known criteria type.
func DefaultScanners() []CriteriaScanner {
	return []CriteriaScanner{
		statScanner{FirstQuestion, func(s *Stats) int { return s.QuestionCount }},
		statScanner{FirstAnswer, func(s *Stats) int { return s.AnswerCount }},
		statScanner{QuestionCount, func(s *Stats) int { return s.QuestionCount }},
		statScanner{AnswerCount, func(s *Stats) int { return s.AnswerCount }},
		statScanner{AcceptedCount, func(s *Stats) int { return s.AcceptedAnswerCount }},
		statScanner{UpvotesReceived, func(s *Stats) int { return s.TotalUpvotes }},
		statScanner{Reputation, func(s *Stats) int { return s.Reputation }},
		statScanner{StreakDays, func(s *Stats) int { return s.CurrentStreak }},
		statScanner{LongestStreak, func(s *Stats) int { return s.LongestStreak }},
		statScanner{VotesCast, func(s *Stats) int { return s.VotesCast }},
		statScanner{HelpfulVotes, func(s *Stats) int { return s.HelpfulVotes }},
		statScanner{AnswerScore, func(s *Stats) int { return s.MaxAnswerScore }},
		statScanner{QuestionScore, func(s *Stats) int { return s.MaxQuestionScore }},
	}
}

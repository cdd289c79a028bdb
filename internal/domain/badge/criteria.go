package badge

import (
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/enum"
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

type CriteriaType string

var (
	FirstQuestion   = enum.New(CriteriaType("first_question"))
	FirstAnswer     = enum.New(CriteriaType("first_answer"))
	QuestionCount   = enum.New(CriteriaType("question_count"))
	AnswerCount     = enum.New(CriteriaType("answer_count"))
	AcceptedCount   = enum.New(CriteriaType("accepted_count"))
	UpvotesReceived = enum.New(CriteriaType("upvotes_received"))
	Reputation      = enum.New(CriteriaType("reputation"))
	StreakDays      = enum.New(CriteriaType("streak_days"))
	LongestStreak   = enum.New(CriteriaType("longest_streak"))
	VotesCast       = enum.New(CriteriaType("votes_cast"))
	HelpfulVotes    = enum.New(CriteriaType("helpful_votes"))
	AnswerScore     = enum.New(CriteriaType("answer_score"))
	QuestionScore   = enum.New(CriteriaType("question_score"))
)

type Criteria struct {
	Type      CriteriaType `mapstructure:"type" structs:"type"`
	Threshold int          `mapstructure:"threshold" structs:"threshold,omitempty"`
}

// Required returns the threshold, a criteria without threshold needs 1.
func (c Criteria) Required() int {
	if c.Threshold <= 0 {
		return 1
	}

	return c.Threshold
}

func (c Criteria) ToMap() entity.Map {
	return structs.Map(c)
}

func ParseCriteria(m entity.Map) (Criteria, error) {
	var c Criteria
	if err := mapstructure.WeakDecode(map[string]any(m), &c); err != nil {
		return Criteria{}, err
	}

	return c, nil
}

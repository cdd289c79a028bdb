package badge

import (
	"context"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
)

type Definition struct {
	Slug        string
	Name        string
	Description string
	Tier        entity.BadgeTier
	Icon        string
	Criteria    Criteria
}

var Catalogue = []Definition{
	{"first-question", "First Question", "Asked a first question", entity.BadgeTierBronze, "help-circle", Criteria{Type: FirstQuestion}},
	{"first-answer", "First Answer", "Posted a first answer", entity.BadgeTierBronze, "message-circle", Criteria{Type: FirstAnswer}},
	{"curious", "Curious", "Asked 5 questions", entity.BadgeTierBronze, "search", Criteria{Type: QuestionCount, Threshold: 5}},
	{"inquisitor", "Inquisitor", "Asked 25 questions", entity.BadgeTierSilver, "compass", Criteria{Type: QuestionCount, Threshold: 25}},
	{"contributor", "Contributor", "Posted 5 answers", entity.BadgeTierBronze, "edit", Criteria{Type: AnswerCount, Threshold: 5}},
	{"helpful", "Helpful", "Had an answer accepted", entity.BadgeTierBronze, "check-circle", Criteria{Type: AcceptedCount, Threshold: 1}},
	{"teacher", "Teacher", "Had 5 answers accepted", entity.BadgeTierSilver, "book-open", Criteria{Type: AcceptedCount, Threshold: 5}},
	{"guru", "Guru", "Had 25 answers accepted", entity.BadgeTierGold, "award", Criteria{Type: AcceptedCount, Threshold: 25}},
	{"supporter", "Supporter", "Cast a first upvote", entity.BadgeTierBronze, "thumbs-up", Criteria{Type: HelpfulVotes, Threshold: 1}},
	{"civic-duty", "Civic Duty", "Cast 25 votes", entity.BadgeTierSilver, "flag", Criteria{Type: VotesCast, Threshold: 25}},
	{"electorate", "Electorate", "Cast 100 votes", entity.BadgeTierGold, "users", Criteria{Type: VotesCast, Threshold: 100}},
	{"rising-star", "Rising Star", "Received 50 upvotes", entity.BadgeTierSilver, "trending-up", Criteria{Type: UpvotesReceived, Threshold: 50}},
	{"legend", "Legend", "Reached 1000 reputation", entity.BadgeTierGold, "star", Criteria{Type: Reputation, Threshold: 1000}},
	{"consistent", "Consistent", "Active 7 days in a row", entity.BadgeTierBronze, "calendar", Criteria{Type: StreakDays, Threshold: 7}},
	{"dedicated", "Dedicated", "Active 30 days in a row", entity.BadgeTierSilver, "zap", Criteria{Type: StreakDays, Threshold: 30}},
	{"fanatic", "Fanatic", "Active 100 days in a row", entity.BadgeTierGold, "activity", Criteria{Type: StreakDays, Threshold: 100}},
	{"yearling", "Yearling", "Had a streak of 365 days", entity.BadgeTierGold, "sun", Criteria{Type: LongestStreak, Threshold: 365}},
	{"nice-question", "Nice Question", "Question score of 5", entity.BadgeTierBronze, "help-circle", Criteria{Type: QuestionScore, Threshold: 5}},
	{"good-question", "Good Question", "Question score of 10", entity.BadgeTierSilver, "help-circle", Criteria{Type: QuestionScore, Threshold: 10}},
	{"stellar-question", "Stellar Question", "Question score of 25", entity.BadgeTierGold, "help-circle", Criteria{Type: QuestionScore, Threshold: 25}},
	{"nice-answer", "Nice Answer", "Answer score of 5", entity.BadgeTierBronze, "message-square", Criteria{Type: AnswerScore, Threshold: 5}},
	{"great-answer", "Great Answer", "Answer score of 10", entity.BadgeTierSilver, "message-square", Criteria{Type: AnswerScore, Threshold: 10}},
	{"stellar-answer", "Stellar Answer", "Answer score of 25", entity.BadgeTierGold, "message-square", Criteria{Type: AnswerScore, Threshold: 25}},
}

// Seed upserts the whole catalogue by slug. Badges which were already awarded
// keep their id.
func Seed(ctx context.Context, badgeRepo repository.BadgeRepository) error {
	for _, def := range Catalogue {
		err := badgeRepo.Upsert(ctx, &entity.Badge{
			Base:        entity.Base{ID: uuid.NewString()},
			Name:        def.Name,
			Slug:        def.Slug,
			Description: def.Description,
			Tier:        def.Tier,
			Icon:        def.Icon,
			Criteria:    def.Criteria.ToMap(),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot upsert badge %s: %v", def.Slug, err)
			return err
		}
	}

	return nil
}

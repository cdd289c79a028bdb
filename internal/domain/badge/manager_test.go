package badge

import (
	"context"
	"fmt"
	"testing"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestManager(ctx context.Context, publisher *testutil.MockPublisher) *Manager {
	badgeRepo := repository.NewBadgeRepository()
	if err := Seed(ctx, badgeRepo); err != nil {
		panic(err)
	}

	statsLoader := NewStatsLoader(
		repository.NewProfileRepository(),
		repository.NewQuestionRepository(),
		repository.NewAnswerRepository(),
		repository.NewVoteRepository(),
	)

	return NewManager(badgeRepo, repository.NewUserBadgeRepository(), statsLoader, publisher, DefaultScanners()...)
}

func createQuestions(ctx context.Context, userID string, n int) {
	questionRepo := repository.NewQuestionRepository()
	for i := 0; i < n; i++ {
		err := questionRepo.Create(ctx, &entity.Question{
			Base:   entity.Base{ID: fmt.Sprintf("%s-question%d", userID, i)},
			UserID: userID,
			Title:  fmt.Sprintf("Question number %d of %s", i, userID),
			Body:   "A body which is long enough to be a real question body.",
			Status: entity.QuestionStatusOpen,
		})
		if err != nil {
			panic(err)
		}
	}
}

func Test_Catalogue(t *testing.T) {
	require.Len(t, Catalogue, 23)

	slugs := map[string]struct{}{}
	for _, def := range Catalogue {
		slugs[def.Slug] = struct{}{}

		criteria, err := ParseCriteria(def.Criteria.ToMap())
		require.NoError(t, err)
		require.Equal(t, def.Criteria.Type, criteria.Type)
		require.Equal(t, def.Criteria.Required(), criteria.Required())
	}
	require.Len(t, slugs, 23)
}

func Test_Seed_Idempotent(t *testing.T) {
	ctx := testutil.MockContext()
	badgeRepo := repository.NewBadgeRepository()

	require.NoError(t, Seed(ctx, badgeRepo))
	first, err := badgeRepo.GetBySlug(ctx, "curious")
	require.NoError(t, err)

	require.NoError(t, Seed(ctx, badgeRepo))
	second, err := badgeRepo.GetBySlug(ctx, "curious")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	badges, err := badgeRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, badges, 23)

	criteria, err := ParseCriteria(second.Criteria)
	require.NoError(t, err)
	require.Equal(t, Criteria{Type: QuestionCount, Threshold: 5}, criteria)
}

func Test_Manager_ScanAndGive(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	publisher := &testutil.MockPublisher{}
	manager := newTestManager(ctx, publisher)

	awarded, err := manager.ScanAndGive(ctx, testutil.Profile1.UserID)
	require.NoError(t, err)
	require.Empty(t, awarded)

	createQuestions(ctx, testutil.Profile1.UserID, 5)

	awarded, err = manager.ScanAndGive(ctx, testutil.Profile1.UserID)
	require.NoError(t, err)

	slugs := []string{}
	for _, b := range awarded {
		slugs = append(slugs, b.Slug)
	}
	require.ElementsMatch(t, []string{"first-question", "curious"}, slugs)
	require.Len(t, publisher.Messages(common.TopicBadgeAwarded), 2)

	// Evaluating again gives nothing new.
	awarded, err = manager.ScanAndGive(ctx, testutil.Profile1.UserID)
	require.NoError(t, err)
	require.Empty(t, awarded)

	held, err := repository.NewUserBadgeRepository().GetListByUserID(ctx, testutil.Profile1.UserID)
	require.NoError(t, err)
	require.Len(t, held, 2)
}

func Test_Manager_ReputationBadge(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	manager := newTestManager(ctx, &testutil.MockPublisher{})

	profileRepo := repository.NewProfileRepository()
	require.NoError(t, profileRepo.IncreaseReputation(ctx, testutil.Profile2.UserID, 999))

	awarded, err := manager.ScanAndGive(ctx, testutil.Profile2.UserID)
	require.NoError(t, err)
	require.Empty(t, awarded)

	require.NoError(t, profileRepo.IncreaseReputation(ctx, testutil.Profile2.UserID, 1))

	awarded, err = manager.ScanAndGive(ctx, testutil.Profile2.UserID)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	require.Equal(t, "legend", awarded[0].Slug)
}

func Test_Manager_TryScanAndGive(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	manager := newTestManager(ctx, &testutil.MockPublisher{})

	createQuestions(ctx, testutil.Profile1.UserID, 1)

	// Unknown users only log an error.
	manager.TryScanAndGive(ctx, testutil.Profile1.UserID, "", "unknown", testutil.Profile1.UserID)

	held, err := repository.NewUserBadgeRepository().GetBadgeIDs(ctx, testutil.Profile1.UserID)
	require.NoError(t, err)
	require.Len(t, held, 1)
}

func Test_Criteria_Required(t *testing.T) {
	require.Equal(t, 1, Criteria{Type: FirstAnswer}.Required())
	require.Equal(t, 25, Criteria{Type: VotesCast, Threshold: 25}.Required())

	criteria, err := ParseCriteria(entity.Map{"type": "votes_cast", "threshold": "100"})
	require.NoError(t, err)
	require.Equal(t, Criteria{Type: VotesCast, Threshold: 100}, criteria)
}

package vote

import (
	"context"
	"testing"

	"github.com/abi-lab/backend/internal/domain/reputation"
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type voteSuite struct {
	profileRepo  repository.ProfileRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	voteRepo     repository.VoteRepository
	engine       *Engine
}

func newVoteSuite(ctx context.Context) *voteSuite {
	s := &voteSuite{
		profileRepo:  repository.NewProfileRepository(),
		questionRepo: repository.NewQuestionRepository(),
		answerRepo:   repository.NewAnswerRepository(),
		voteRepo:     repository.NewVoteRepository(),
	}

	ledger := reputation.NewLedger(s.profileRepo, repository.NewReputationLogRepository())
	s.engine = NewEngine(s.questionRepo, s.answerRepo, s.voteRepo, ledger)

	err := s.questionRepo.Create(ctx, &entity.Question{
		Base:   entity.Base{ID: "question1"},
		UserID: testutil.Profile1.UserID,
		Title:  "How to estimate aluminium prices",
		Body:   "A body which is long enough to be a real question body.",
		Status: entity.QuestionStatusOpen,
	})
	if err != nil {
		panic(err)
	}

	err = s.answerRepo.Create(ctx, &entity.Answer{
		Base:       entity.Base{ID: "answer1"},
		QuestionID: "question1",
		UserID:     testutil.Profile2.UserID,
		Body:       "An answer which is long enough to be a real answer body.",
	})
	if err != nil {
		panic(err)
	}

	return s
}

func (s *voteSuite) reputation(t *testing.T, ctx context.Context, userID string) int {
	profile, err := s.profileRepo.Get(ctx, userID)
	require.NoError(t, err)
	return profile.Reputation
}

func Test_Engine_Cast(t *testing.T) {
	type cast struct {
		value     int
		wantScore int
		wantVote  int
	}

	question := Target{Type: entity.VoteTargetQuestion, ID: "question1"}
	answer := Target{Type: entity.VoteTargetAnswer, ID: "answer1"}

	tests := []struct {
		name      string
		target    Target
		casts     []cast
		wantOwner int
		wantVoter int
	}{
		{
			name:      "upvote question",
			target:    question,
			casts:     []cast{{1, 1, 1}},
			wantOwner: 5,
		},
		{
			name:      "toggle upvote off",
			target:    question,
			casts:     []cast{{1, 1, 1}, {1, 0, 0}},
			wantOwner: 0,
		},
		{
			name:      "downvote answer",
			target:    answer,
			casts:     []cast{{-1, -1, -1}},
			wantOwner: 0,
			wantVoter: 0,
		},
		{
			name:      "remove with zero",
			target:    answer,
			casts:     []cast{{1, 1, 1}, {0, 0, 0}},
			wantOwner: 0,
		},
		{
			name:      "zero without vote",
			target:    answer,
			casts:     []cast{{0, 0, 0}},
			wantOwner: 0,
		},
		{
			// The clamped deductions make the refunds larger than the charges.
			name:      "switch up to down then up again",
			target:    answer,
			casts:     []cast{{1, 1, 1}, {-1, -1, -1}, {1, 1, 1}},
			wantOwner: 12,
			wantVoter: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)
			s := newVoteSuite(ctx)

			ownerID := testutil.Profile1.UserID
			if tt.target.Type == entity.VoteTargetAnswer {
				ownerID = testutil.Profile2.UserID
			}

			for _, c := range tt.casts {
				result, err := s.engine.Cast(ctx, testutil.Profile3.UserID, tt.target, c.value)
				require.NoError(t, err)
				require.Equal(t, c.wantScore, result.NewScore)
				require.Equal(t, c.wantVote, result.UserVote)
				require.Equal(t, ownerID, result.OwnerID)
			}

			require.Equal(t, tt.wantOwner, s.reputation(t, ctx, ownerID))
			require.Equal(t, tt.wantVoter, s.reputation(t, ctx, testutil.Profile3.UserID))
		})
	}
}

func Test_Engine_SwitchDeltas(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	s := newVoteSuite(ctx)

	// Give everybody some reputation so the clamp doesn't hide the deltas.
	for _, userID := range []string{testutil.Profile1.UserID, testutil.Profile2.UserID, testutil.Profile3.UserID} {
		require.NoError(t, s.profileRepo.IncreaseReputation(ctx, userID, 100))
	}

	question := Target{Type: entity.VoteTargetQuestion, ID: "question1"}
	answer := Target{Type: entity.VoteTargetAnswer, ID: "answer1"}

	_, err := s.engine.Cast(ctx, testutil.Profile3.UserID, question, 1)
	require.NoError(t, err)
	_, err = s.engine.Cast(ctx, testutil.Profile3.UserID, answer, 1)
	require.NoError(t, err)

	require.Equal(t, 105, s.reputation(t, ctx, testutil.Profile1.UserID))
	require.Equal(t, 110, s.reputation(t, ctx, testutil.Profile2.UserID))

	result, err := s.engine.Cast(ctx, testutil.Profile3.UserID, question, -1)
	require.NoError(t, err)
	require.Equal(t, -1, result.NewScore)

	result, err = s.engine.Cast(ctx, testutil.Profile3.UserID, answer, -1)
	require.NoError(t, err)
	require.Equal(t, -1, result.NewScore)

	// Question owner -7, answer owner -12, voter -1 per downvote.
	require.Equal(t, 98, s.reputation(t, ctx, testutil.Profile1.UserID))
	require.Equal(t, 98, s.reputation(t, ctx, testutil.Profile2.UserID))
	require.Equal(t, 98, s.reputation(t, ctx, testutil.Profile3.UserID))

	// Removing the downvotes refunds everything which the downvotes cost.
	_, err = s.engine.Cast(ctx, testutil.Profile3.UserID, question, -1)
	require.NoError(t, err)
	_, err = s.engine.Cast(ctx, testutil.Profile3.UserID, answer, -1)
	require.NoError(t, err)

	require.Equal(t, 100, s.reputation(t, ctx, testutil.Profile1.UserID))
	require.Equal(t, 100, s.reputation(t, ctx, testutil.Profile2.UserID))
	require.Equal(t, 100, s.reputation(t, ctx, testutil.Profile3.UserID))

	logRepo := repository.NewReputationLogRepository()
	for _, userID := range []string{testutil.Profile1.UserID, testutil.Profile3.UserID} {
		sum, err := logRepo.SumBySource(ctx, userID, "question1")
		require.NoError(t, err)
		require.Equal(t, 0, sum)
	}
}

func Test_Engine_ScoreEqualsVotes(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	s := newVoteSuite(ctx)

	answer := Target{Type: entity.VoteTargetAnswer, ID: "answer1"}
	casts := []struct {
		voterID string
		value   int
	}{
		{testutil.Profile1.UserID, 1},
		{testutil.Profile3.UserID, -1},
		{testutil.ApproverProfile.UserID, 1},
		{testutil.Profile3.UserID, 1},
		{testutil.Profile1.UserID, 0},
		{testutil.AdminProfile.UserID, -1},
	}

	for _, c := range casts {
		_, err := s.engine.Cast(ctx, c.voterID, answer, c.value)
		require.NoError(t, err)
	}

	a, err := s.answerRepo.GetByID(ctx, "answer1")
	require.NoError(t, err)
	require.Equal(t, 1, a.Score)

	require.NoError(t, s.answerRepo.RecalculateScore(ctx))
	a, err = s.answerRepo.GetByID(ctx, "answer1")
	require.NoError(t, err)
	require.Equal(t, 1, a.Score)
}

func Test_Engine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		voterID string
		target  Target
		value   int
		wantErr error
	}{
		{
			name:    "self vote",
			voterID: testutil.Profile1.UserID,
			target:  Target{Type: entity.VoteTargetQuestion, ID: "question1"},
			value:   1,
			wantErr: errorx.New(errorx.PermissionDenied, "Cannot vote on your own question"),
		},
		{
			name:    "missing target",
			voterID: testutil.Profile1.UserID,
			target:  Target{Type: entity.VoteTargetAnswer, ID: "unknown"},
			value:   1,
			wantErr: errorx.New(errorx.NotFound, "Not found answer"),
		},
		{
			name:    "invalid value",
			voterID: testutil.Profile3.UserID,
			target:  Target{Type: entity.VoteTargetQuestion, ID: "question1"},
			value:   2,
			wantErr: errorx.New(errorx.BadRequest, "Vote value must be -1, 0 or 1"),
		},
		{
			name:    "invalid target type",
			voterID: testutil.Profile3.UserID,
			target:  Target{Type: "comment", ID: "question1"},
			value:   1,
			wantErr: errorx.New(errorx.BadRequest, "Invalid target type"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)
			s := newVoteSuite(ctx)

			_, err := s.engine.Cast(ctx, tt.voterID, tt.target, tt.value)
			require.Error(t, err)
			require.Equal(t, tt.wantErr.Error(), err.Error())
		})
	}
}

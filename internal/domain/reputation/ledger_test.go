package reputation

import (
	"testing"

	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_Ledger_AwardAndReverse(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	profileRepo := repository.NewProfileRepository()
	logRepo := repository.NewReputationLogRepository()
	ledger := NewLedger(profileRepo, logRepo)

	source := Source{Type: "answer", ID: "answer1"}
	require.NoError(t, ledger.Award(ctx, testutil.Profile1.UserID, AnswerUpvoted, source))

	profile, err := profileRepo.Get(ctx, testutil.Profile1.UserID)
	require.NoError(t, err)
	require.Equal(t, 10, profile.Reputation)

	require.NoError(t, ledger.Reverse(ctx, testutil.Profile1.UserID, AnswerUpvoted, source))

	profile, err = profileRepo.Get(ctx, testutil.Profile1.UserID)
	require.NoError(t, err)
	require.Equal(t, 0, profile.Reputation)

	sum, err := logRepo.SumBySource(ctx, testutil.Profile1.UserID, source.ID)
	require.NoError(t, err)
	require.Equal(t, 0, sum)

	logs, err := logRepo.GetListByUserID(ctx, testutil.Profile1.UserID, 0, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "answer_upvoted_reversed", logs[0].Reason)
	require.Equal(t, -10, logs[0].Change)
	require.Equal(t, "answer_upvoted", logs[1].Reason)
	require.Equal(t, 10, logs[1].Change)
}

func Test_Ledger_ClampAtZero(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	profileRepo := repository.NewProfileRepository()
	logRepo := repository.NewReputationLogRepository()
	ledger := NewLedger(profileRepo, logRepo)

	source := Source{Type: "question", ID: "question1"}
	require.NoError(t, ledger.Award(ctx, testutil.Profile1.UserID, DownvoteCast, source))
	require.NoError(t, ledger.Award(ctx, testutil.Profile1.UserID, QuestionDownvoted, source))

	profile, err := profileRepo.Get(ctx, testutil.Profile1.UserID)
	require.NoError(t, err)
	require.Equal(t, 0, profile.Reputation)

	// The ledger still records the exact changes.
	sum, err := logRepo.SumBySource(ctx, testutil.Profile1.UserID, source.ID)
	require.NoError(t, err)
	require.Equal(t, -3, sum)
}

func Test_Ledger_MissingProfile(t *testing.T) {
	ctx := testutil.MockContext()

	profileRepo := repository.NewProfileRepository()
	ledger := NewLedger(profileRepo, repository.NewReputationLogRepository())

	require.NoError(t, ledger.Award(ctx, "newcomer", AnswerAccepted, Source{Type: "answer", ID: "a"}))

	profile, err := profileRepo.Get(ctx, "newcomer")
	require.NoError(t, err)
	require.Equal(t, 15, profile.Reputation)
}

func Test_Ledger_UnknownReason(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	ledger := NewLedger(repository.NewProfileRepository(), repository.NewReputationLogRepository())

	err := ledger.Award(ctx, testutil.Profile1.UserID, Reason("question_upvoted_reversed"), Source{})
	require.Error(t, err)
	require.Equal(t, "Unknown reputation reason", err.Error())
}

func Test_Reason_Reversed(t *testing.T) {
	reasons := []Reason{
		QuestionUpvoted, QuestionDownvoted, AnswerUpvoted, AnswerDownvoted,
		AnswerAccepted, AcceptedAnswer, DownvoteCast,
	}

	for _, r := range reasons {
		require.Equal(t, string(r)+"_reversed", string(r.Reversed()))
		_, ok := Delta(r.Reversed())
		require.False(t, ok)
	}
}

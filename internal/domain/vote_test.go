package domain

import (
	"testing"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_voteDomain_Cast(t *testing.T) {
	ctx := testutil.MockContext()
	s := newTestSuite(ctx)

	q := s.createQuestion(t, ctx, testutil.Profile1.UserID, "How to estimate aluminium prices")
	a := s.createAnswer(t, ctx, testutil.Profile2.UserID, q.ID)
	voterCtx := testutil.MockContextWithUserID(ctx, testutil.Profile3.UserID)

	resp, err := s.voteDomain.Cast(voterCtx, &model.CastVoteRequest{
		TargetType: "question", TargetID: q.ID, Value: 1,
	})
	require.NoError(t, err)
	require.Equal(t, &model.CastVoteResponse{NewScore: 1, UserVote: 1}, resp)
	require.Equal(t, 5, s.reputation(t, ctx, testutil.Profile1.UserID))

	resp, err = s.voteDomain.Cast(voterCtx, &model.CastVoteRequest{
		TargetType: "answer", TargetID: a.ID, Value: 1,
	})
	require.NoError(t, err)
	require.Equal(t, &model.CastVoteResponse{NewScore: 1, UserVote: 1}, resp)
	require.Equal(t, 10, s.reputation(t, ctx, testutil.Profile2.UserID))

	// Casting the same value again removes the vote.
	resp, err = s.voteDomain.Cast(voterCtx, &model.CastVoteRequest{
		TargetType: "answer", TargetID: a.ID, Value: 1,
	})
	require.NoError(t, err)
	require.Equal(t, &model.CastVoteResponse{NewScore: 0, UserVote: 0}, resp)
	require.Equal(t, 0, s.reputation(t, ctx, testutil.Profile2.UserID))

	require.Len(t, s.publisher.Messages(common.TopicVoteCast), 3)

	// The viewer sees the own vote.
	question, err := s.questionDomain.Get(voterCtx, &model.GetQuestionRequest{ID: q.ID, IncludeAnswers: true})
	require.NoError(t, err)
	require.NotNil(t, question.UserVote)
	require.Equal(t, 1, *question.UserVote)
	require.Equal(t, 1, question.Score)
	require.Nil(t, question.Answers[0].UserVote)
}

func Test_voteDomain_Cast_Errors(t *testing.T) {
	ctx := testutil.MockContext()
	s := newTestSuite(ctx)

	q := s.createQuestion(t, ctx, testutil.Profile1.UserID, "How to estimate aluminium prices")

	tests := []struct {
		name    string
		userID  string
		req     *model.CastVoteRequest
		wantErr error
	}{
		{
			name:    "invalid target type",
			userID:  testutil.Profile2.UserID,
			req:     &model.CastVoteRequest{TargetType: "tag", TargetID: q.ID, Value: 1},
			wantErr: errorx.New(errorx.BadRequest, "Invalid target type"),
		},
		{
			name:    "empty target",
			userID:  testutil.Profile2.UserID,
			req:     &model.CastVoteRequest{TargetType: "question", Value: 1},
			wantErr: errorx.New(errorx.BadRequest, "Not allow empty target id"),
		},
		{
			name:    "own question",
			userID:  testutil.Profile1.UserID,
			req:     &model.CastVoteRequest{TargetType: "question", TargetID: q.ID, Value: 1},
			wantErr: errorx.New(errorx.PermissionDenied, "Cannot vote on your own question"),
		},
		{
			name:    "invalid value",
			userID:  testutil.Profile2.UserID,
			req:     &model.CastVoteRequest{TargetType: "question", TargetID: q.ID, Value: 2},
			wantErr: errorx.New(errorx.BadRequest, "Vote value must be -1, 0 or 1"),
		},
		{
			name:    "unknown answer",
			userID:  testutil.Profile2.UserID,
			req:     &model.CastVoteRequest{TargetType: "answer", TargetID: "invalid", Value: 1},
			wantErr: errorx.New(errorx.NotFound, "Not found answer"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.voteDomain.Cast(testutil.MockContextWithUserID(ctx, tt.userID), tt.req)
			require.Error(t, err)
			require.Equal(t, tt.wantErr.Error(), err.Error())
		})
	}

	// Failed votes change nothing.
	question, err := s.questionRepo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, 0, question.Score)
}

package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_redisViewCounter_Increase(t *testing.T) {
	ctx := testutil.MockContext()

	counters := map[string]int64{}
	viewed := map[string]struct{}{}
	redisClient := &testutil.MockRedisClient{
		IncrByFunc: func(ctx context.Context, key string, value int64) (int64, error) {
			counters[key] += value
			return counters[key], nil
		},
		SAddFunc: func(ctx context.Context, key string, members ...string) error {
			require.Equal(t, common.ViewedQuestionsKey, key)
			for _, m := range members {
				viewed[m] = struct{}{}
			}
			return nil
		},
	}

	counter := NewRedisViewCounter(redisClient)
	require.NoError(t, counter.Increase(ctx, "question1"))
	require.NoError(t, counter.Increase(ctx, "question1"))
	require.NoError(t, counter.Increase(ctx, "question2"))

	require.Equal(t, int64(2), counters[common.QuestionViewCountKey("question1")])
	require.Equal(t, int64(1), counters[common.QuestionViewCountKey("question2")])
	require.Len(t, viewed, 2)
}

func Test_questionDomain_View_RedisFailure(t *testing.T) {
	ctx := testutil.MockContext()
	s := newTestSuite(ctx)
	q := s.createQuestion(t, ctx, testutil.Profile1.UserID, "How to estimate aluminium prices")

	s.questionDomain.viewCounter = NewRedisViewCounter(&testutil.MockRedisClient{
		IncrByFunc: func(ctx context.Context, key string, value int64) (int64, error) {
			return 0, errors.New("connection refused")
		},
	})

	// A lost view is not an error for the client.
	_, err := s.questionDomain.View(ctx, &model.ViewQuestionRequest{ID: q.ID})
	require.NoError(t, err)
}

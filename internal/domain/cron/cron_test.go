package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	count atomic.Int32
}

func (job *countingJob) Do(context.Context) { job.count.Add(1) }
func (job *countingJob) RunNow() bool       { return true }
func (job *countingJob) Next() time.Time    { return time.Now().Add(5 * time.Millisecond) }

func Test_CronJobManager(t *testing.T) {
	ctx := testutil.MockContext()
	job := &countingJob{}

	manager := NewCronJobManager()
	manager.Register(job)

	done := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return job.count.Load() >= 3 }, time.Second, time.Millisecond)

	manager.Cancel(ctx)
	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "manager didn't stop")
	}
}

func Test_CronJobManager_CancelBeforeStart(t *testing.T) {
	ctx := testutil.MockContext()
	job := &countingJob{}

	manager := NewCronJobManager()
	manager.Register(job)
	manager.Cancel(ctx)
	manager.Cancel(ctx)

	manager.Start(ctx)
	require.Equal(t, int32(0), job.count.Load())
}

func Test_CronJobManager_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.MockContext())
	job := &countingJob{}

	manager := NewCronJobManager()
	manager.Register(job)

	done := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return job.count.Load() >= 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "manager didn't stop")
	}
}

func Test_ReconcileCountersCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	tagRepo := repository.NewTagRepository()
	questionRepo := repository.NewQuestionRepository()
	answerRepo := repository.NewAnswerRepository()
	voteRepo := repository.NewVoteRepository()

	require.NoError(t, questionRepo.Create(ctx, &entity.Question{
		Base:   entity.Base{ID: "question1"},
		UserID: testutil.Profile1.UserID,
		Title:  "How to estimate aluminium prices",
		Body:   "A body which is long enough to be a real question body.",
		Status: entity.QuestionStatusOpen,
	}))
	require.NoError(t, questionRepo.AddTags(ctx, "question1", []string{testutil.Tag1.ID}))
	require.NoError(t, answerRepo.Create(ctx, &entity.Answer{
		Base:       entity.Base{ID: "answer1"},
		QuestionID: "question1",
		UserID:     testutil.Profile2.UserID,
		Body:       "An answer which is long enough to be a real answer body.",
	}))
	require.NoError(t, voteRepo.Create(ctx, &entity.Vote{
		Base:       entity.Base{ID: "vote1"},
		UserID:     testutil.Profile3.UserID,
		TargetType: entity.VoteTargetAnswer,
		TargetID:   "answer1",
		Value:      -1,
	}))

	// Counters drifted away from the source rows.
	require.NoError(t, tagRepo.IncreaseQuestionCount(ctx, []string{testutil.Tag2.ID}, 4))
	require.NoError(t, questionRepo.Update(ctx, "question1", map[string]any{"score": 7}))

	NewReconcileCountersCronJob(tagRepo, questionRepo, answerRepo, time.Hour).Do(ctx)

	tags, err := tagRepo.GetByIDs(ctx, []string{testutil.Tag1.ID, testutil.Tag2.ID})
	require.NoError(t, err)
	for _, tag := range tags {
		if tag.ID == testutil.Tag1.ID {
			require.Equal(t, 1, tag.QuestionCount)
		} else {
			require.Equal(t, 0, tag.QuestionCount)
		}
	}

	question, err := questionRepo.GetByID(ctx, "question1")
	require.NoError(t, err)
	require.Equal(t, 1, question.AnswerCount)
	require.Equal(t, 0, question.Score)

	answer, err := answerRepo.GetByID(ctx, "answer1")
	require.NoError(t, err)
	require.Equal(t, -1, answer.Score)
}

func Test_FlushViewCountCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	questionRepo := repository.NewQuestionRepository()
	require.NoError(t, questionRepo.Create(ctx, &entity.Question{
		Base:   entity.Base{ID: "question1"},
		UserID: testutil.Profile1.UserID,
		Title:  "How to estimate aluminium prices",
		Body:   "A body which is long enough to be a real question body.",
		Status: entity.QuestionStatusOpen,
	}))

	calls := []string{}
	counters := map[string]int64{
		common.QuestionViewCountKey("question1"): 3,
		common.QuestionViewCountKey("deleted"):   2,
	}
	redisClient := &testutil.MockRedisClient{
		SMembersFunc: func(ctx context.Context, key string) ([]string, error) {
			require.Equal(t, common.ViewedQuestionsKey, key)
			return []string{"question1", "deleted", "broken"}, nil
		},
		SRemFunc: func(ctx context.Context, key string, members ...string) error {
			calls = append(calls, "srem:"+members[0])
			return nil
		},
		GetDelIntFunc: func(ctx context.Context, key string) (int64, error) {
			calls = append(calls, "getdel:"+key)
			if key == common.QuestionViewCountKey("broken") {
				return 0, errors.New("connection reset")
			}

			n := counters[key]
			delete(counters, key)
			return n, nil
		},
	}

	job := NewFlushViewCountCronJob(questionRepo, redisClient, time.Minute)
	require.False(t, job.RunNow())
	job.Do(ctx)

	require.Equal(t, []string{
		"srem:question1", "getdel:" + common.QuestionViewCountKey("question1"),
		"srem:deleted", "getdel:" + common.QuestionViewCountKey("deleted"),
		"srem:broken", "getdel:" + common.QuestionViewCountKey("broken"),
	}, calls)

	question, err := questionRepo.GetByID(ctx, "question1")
	require.NoError(t, err)
	require.Equal(t, 3, question.ViewCount)

	// A second round has nothing left to flush.
	job.Do(ctx)
	question, err = questionRepo.GetByID(ctx, "question1")
	require.NoError(t, err)
	require.Equal(t, 3, question.ViewCount)
}

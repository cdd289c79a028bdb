package cron

import (
	"context"
	"time"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/abi-lab/backend/pkg/xredis"
)

// FlushViewCountCronJob moves the views buffered in redis to the database.
type FlushViewCountCronJob struct {
	questionRepo repository.QuestionRepository
	redisClient  xredis.Client
	interval     time.Duration
}

func NewFlushViewCountCronJob(
	questionRepo repository.QuestionRepository,
	redisClient xredis.Client,
	interval time.Duration,
) *FlushViewCountCronJob {
	return &FlushViewCountCronJob{
		questionRepo: questionRepo,
		redisClient:  redisClient,
		interval:     interval,
	}
}

func (job *FlushViewCountCronJob) Do(ctx context.Context) {
	questionIDs, err := job.redisClient.SMembers(ctx, common.ViewedQuestionsKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get viewed questions: %v", err)
		return
	}

	for _, id := range questionIDs {
		// Remove the member before reading the counter. A view counted in
		// between adds the member again and is flushed in the next round.
		if err := job.redisClient.SRem(ctx, common.ViewedQuestionsKey, id); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove viewed question %s: %v", id, err)
			continue
		}

		views, err := job.redisClient.GetDelInt(ctx, common.QuestionViewCountKey(id))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get view count of question %s: %v", id, err)
			continue
		}

		if views <= 0 {
			continue
		}

		if err := job.questionRepo.IncreaseViewCount(ctx, id, int(views)); err != nil {
			// The question may have been deleted meanwhile.
			xcontext.Logger(ctx).Warnf("Cannot flush %d views of question %s: %v", views, id, err)
		}
	}
}

func (job *FlushViewCountCronJob) RunNow() bool {
	return false
}

func (job *FlushViewCountCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}

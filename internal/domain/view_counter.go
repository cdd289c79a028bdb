package domain

import (
	"context"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/xredis"
)

// ViewCounter counts a view of a question. It is best effort, a lost view is
// not an error for the client.
type ViewCounter interface {
	Increase(ctx context.Context, questionID string) error
}

type directViewCounter struct {
	questionRepo repository.QuestionRepository
}

func NewDirectViewCounter(questionRepo repository.QuestionRepository) *directViewCounter {
	return &directViewCounter{questionRepo: questionRepo}
}

func (c *directViewCounter) Increase(ctx context.Context, questionID string) error {
	return c.questionRepo.IncreaseViewCount(ctx, questionID, 1)
}

// redisViewCounter buffers views in redis. The flush cron job moves them to
// the database.
type redisViewCounter struct {
	redisClient xredis.Client
}

func NewRedisViewCounter(redisClient xredis.Client) *redisViewCounter {
	return &redisViewCounter{redisClient: redisClient}
}

func (c *redisViewCounter) Increase(ctx context.Context, questionID string) error {
	if _, err := c.redisClient.IncrBy(ctx, common.QuestionViewCountKey(questionID), 1); err != nil {
		return err
	}

	return c.redisClient.SAdd(ctx, common.ViewedQuestionsKey, questionID)
}

package cron

import (
	"context"
	"time"

	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/xcontext"
)

// ReconcileCountersCronJob rebuilds the cached counters (tag question counts,
// answer counts and scores) from their source rows. The domains keep them in
// sync on every write, the job only repairs drift.
type ReconcileCountersCronJob struct {
	tagRepo      repository.TagRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	interval     time.Duration
}

func NewReconcileCountersCronJob(
	tagRepo repository.TagRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	interval time.Duration,
) *ReconcileCountersCronJob {
	return &ReconcileCountersCronJob{
		tagRepo:      tagRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		interval:     interval,
	}
}

func (job *ReconcileCountersCronJob) Do(ctx context.Context) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := job.tagRepo.RecalculateQuestionCount(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot recalculate question count of tags: %v", err)
		return
	}

	if err := job.questionRepo.RecalculateCounters(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot recalculate counters of questions: %v", err)
		return
	}

	if err := job.answerRepo.RecalculateScore(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot recalculate score of answers: %v", err)
		return
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit reconciled counters: %v", err)
	}
}

func (job *ReconcileCountersCronJob) RunNow() bool {
	return true
}

func (job *ReconcileCountersCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}

package domain

import (
	"context"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/xcontext"
)

// presenter enriches questions and answers with authors, tags and the vote of
// the viewer.
type presenter struct {
	profileRepo repository.ProfileRepository
	tagRepo     repository.TagRepository
	voteRepo    repository.VoteRepository
	answerRepo  repository.AnswerRepository
}

func newPresenter(
	profileRepo repository.ProfileRepository,
	tagRepo repository.TagRepository,
	voteRepo repository.VoteRepository,
	answerRepo repository.AnswerRepository,
) *presenter {
	return &presenter{
		profileRepo: profileRepo,
		tagRepo:     tagRepo,
		voteRepo:    voteRepo,
		answerRepo:  answerRepo,
	}
}

func (p *presenter) questions(ctx context.Context, questions []entity.Question) ([]model.Question, error) {
	result := []model.Question{}
	if len(questions) == 0 {
		return result, nil
	}

	questionIDs := []string{}
	userIDs := []string{}
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
		userIDs = append(userIDs, q.UserID)
	}

	authors, err := loadAuthors(ctx, p.profileRepo, userIDs)
	if err != nil {
		return nil, err
	}

	tags, err := p.tagRepo.GetByQuestionIDs(ctx, questionIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tags of questions: %v", err)
		return nil, errorx.Unknown
	}

	votes, err := loadUserVotes(ctx, p.voteRepo, entity.VoteTargetQuestion, questionIDs)
	if err != nil {
		return nil, err
	}

	for i := range questions {
		q := &questions[i]
		result = append(result, model.ConvertQuestion(
			q, authors[q.UserID], model.ConvertTags(tags[q.ID]), userVote(votes, q.ID)))
	}

	return result, nil
}

func (p *presenter) question(
	ctx context.Context, question *entity.Question, includeAnswers bool,
) (*model.Question, error) {
	result, err := p.questions(ctx, []entity.Question{*question})
	if err != nil {
		return nil, err
	}

	clientQuestion := result[0]
	if !includeAnswers {
		return &clientQuestion, nil
	}

	answers, err := p.answerRepo.GetListByQuestionID(ctx, question.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get answers: %v", err)
		return nil, errorx.Unknown
	}

	clientQuestion.Answers, err = p.answers(ctx, answers)
	if err != nil {
		return nil, err
	}

	return &clientQuestion, nil
}

func (p *presenter) answers(ctx context.Context, answers []entity.Answer) ([]model.Answer, error) {
	result := []model.Answer{}
	if len(answers) == 0 {
		return result, nil
	}

	answerIDs := []string{}
	userIDs := []string{}
	for _, a := range answers {
		answerIDs = append(answerIDs, a.ID)
		userIDs = append(userIDs, a.UserID)
	}

	authors, err := loadAuthors(ctx, p.profileRepo, userIDs)
	if err != nil {
		return nil, err
	}

	votes, err := loadUserVotes(ctx, p.voteRepo, entity.VoteTargetAnswer, answerIDs)
	if err != nil {
		return nil, err
	}

	for i := range answers {
		a := &answers[i]
		result = append(result, model.ConvertAnswer(a, authors[a.UserID], userVote(votes, a.ID)))
	}

	return result, nil
}

func (p *presenter) answer(ctx context.Context, answer *entity.Answer) (*model.Answer, error) {
	result, err := p.answers(ctx, []entity.Answer{*answer})
	if err != nil {
		return nil, err
	}

	return &result[0], nil
}

// userVote is nil when the viewer is anonymous or hasn't voted on the target.
func userVote(votes map[string]int, targetID string) *int {
	value, ok := votes[targetID]
	if !ok {
		return nil
	}

	return &value
}

package model

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/repository"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertAuthor(profile *entity.Profile) Author {
	if profile == nil {
		return Author{}
	}

	return Author{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		JobTitle:    profile.JobTitle,
		Company:     profile.Company,
		Reputation:  profile.Reputation,
	}
}

func ConvertTag(tag *entity.Tag) Tag {
	if tag == nil {
		return Tag{}
	}

	return Tag{
		ID:            tag.ID,
		Name:          tag.Name,
		Slug:          tag.Slug,
		Description:   tag.Description,
		QuestionCount: tag.QuestionCount,
	}
}

func ConvertTags(tags []entity.Tag) []Tag {
	result := []Tag{}
	for i := range tags {
		result = append(result, ConvertTag(&tags[i]))
	}

	return result
}

func ConvertQuestion(question *entity.Question, author Author, tags []Tag, userVote *int) Question {
	if question == nil {
		return Question{}
	}

	if tags == nil {
		tags = []Tag{}
	}

	return Question{
		ID:               question.ID,
		Title:            question.Title,
		Body:             question.Body,
		AIContextSummary: question.AIContextSummary,
		Score:            question.Score,
		ViewCount:        question.ViewCount,
		AnswerCount:      question.AnswerCount,
		AcceptedAnswerID: question.AcceptedAnswerID.String,
		Status:           string(question.Status),
		Author:           author,
		Tags:             tags,
		UserVote:         userVote,
		CreatedAt:        question.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt:        question.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertAnswer(answer *entity.Answer, author Author, userVote *int) Answer {
	if answer == nil {
		return Answer{}
	}

	return Answer{
		ID:         answer.ID,
		QuestionID: answer.QuestionID,
		Body:       answer.Body,
		Score:      answer.Score,
		IsAccepted: answer.IsAccepted,
		Author:     author,
		UserVote:   userVote,
		CreatedAt:  answer.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt:  answer.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertBadge(badge *entity.Badge) Badge {
	if badge == nil {
		return Badge{}
	}

	criteria := BadgeCriteria{}
	if t, ok := badge.Criteria["type"].(string); ok {
		criteria.Type = t
	}

	switch t := badge.Criteria["threshold"].(type) {
	case float64:
		criteria.Threshold = int(t)
	case int:
		criteria.Threshold = t
	}

	return Badge{
		ID:          badge.ID,
		Name:        badge.Name,
		Slug:        badge.Slug,
		Description: badge.Description,
		Tier:        string(badge.Tier),
		Icon:        badge.Icon,
		Criteria:    criteria,
	}
}

func ConvertAwardedBadge(badge *repository.AwardedBadge) AwardedBadge {
	if badge == nil {
		return AwardedBadge{}
	}

	return AwardedBadge{
		Badge:     ConvertBadge(&badge.Badge),
		AwardedAt: badge.AwardedAt.Format(DefaultTimeLayout),
	}
}

func ConvertReputationEntry(log *entity.ReputationLog) ReputationEntry {
	if log == nil {
		return ReputationEntry{}
	}

	return ReputationEntry{
		ID:         strconv.FormatInt(log.ID, 10),
		Change:     log.Change,
		Reason:     log.Reason,
		SourceType: log.SourceType.String,
		SourceID:   log.SourceID.String,
		CreatedAt:  log.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertUpgradeRequest(req *entity.UpgradeRequest) UpgradeRequest {
	if req == nil {
		return UpgradeRequest{}
	}

	context := map[string]any(req.Context)
	if context == nil {
		context = map[string]any{}
	}

	return UpgradeRequest{
		ID:               req.ID,
		RequesterID:      req.RequesterID,
		TeamID:           req.TeamID.String,
		Type:             req.Type,
		Title:            req.Title,
		Description:      req.Description,
		ApprovalLevel:    string(req.ApprovalLevel),
		Status:           string(req.Status),
		EstimatedCredits: req.EstimatedCredits,
		Context:          context,
		Deliverables:     req.Deliverables,
		DenialReason:     req.DenialReason.String,
		CreatedAt:        req.CreatedAt.Format(DefaultTimeLayout),
		DecidedAt:        formatNullTime(req.DecidedAt),
		DecidedBy:        req.DecidedBy.String,
		FulfilledAt:      formatNullTime(req.FulfilledAt),
	}
}

func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}

	return t.Time.Format(DefaultTimeLayout)
}

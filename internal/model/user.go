package model

type GetUserStatsRequest struct {
	UserID string `json:"id"`
}

type GetUserStatsResponse struct {
	QuestionCount       int64          `json:"questionCount"`
	AnswerCount         int64          `json:"answerCount"`
	AcceptedAnswerCount int64          `json:"acceptedAnswerCount"`
	Reputation          int            `json:"reputation"`
	Badges              []AwardedBadge `json:"badges"`
}

type GetReputationHistoryRequest struct {
	UserID   string `json:"id"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetReputationHistoryResponse struct {
	Entries []ReputationEntry `json:"entries"`
}

type GetMeRequest struct{}

type GetMeResponse = Author

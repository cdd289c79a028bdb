package model

type CreateAnswerRequest struct {
	QuestionID string `json:"questionId"`
	Body       string `json:"body"`
}

type CreateAnswerResponse = Answer

type UpdateAnswerRequest struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

type UpdateAnswerResponse = Answer

type DeleteAnswerRequest struct {
	ID string `json:"id"`
}

type DeleteAnswerResponse struct{}

type CastVoteRequest struct {
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId"`
	Value      int    `json:"value"`
}

type CastVoteResponse struct {
	NewScore int `json:"newScore"`
	UserVote int `json:"userVote"`
}

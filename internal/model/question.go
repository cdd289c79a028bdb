package model

type GetQuestionsRequest struct {
	Sort     string `json:"sort"`
	Filter   string `json:"filter"`
	Tag      string `json:"tag"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetQuestionsResponse struct {
	Questions  []Question `json:"questions"`
	TotalCount int64      `json:"totalCount"`
	HasMore    bool       `json:"hasMore"`
}

type GetQuestionRequest struct {
	ID             string `json:"id"`
	IncludeAnswers bool   `json:"includeAnswers"`
}

type GetQuestionResponse = Question

type CreateQuestionRequest struct {
	Title            string   `json:"title"`
	Body             string   `json:"body"`
	TagIDs           []string `json:"tagIds"`
	AIContextSummary string   `json:"aiContextSummary"`
}

type CreateQuestionResponse = Question

// UpdateQuestionRequest only changes the fields which are present.
type UpdateQuestionRequest struct {
	ID     string    `json:"id"`
	Title  *string   `json:"title"`
	Body   *string   `json:"body"`
	TagIDs *[]string `json:"tagIds"`
}

type UpdateQuestionResponse = Question

type DeleteQuestionRequest struct {
	ID string `json:"id"`
}

type DeleteQuestionResponse struct{}

type ViewQuestionRequest struct {
	ID string `json:"id"`
}

type ViewQuestionResponse struct{}

type AcceptAnswerRequest struct {
	QuestionID string `json:"qid"`
	AnswerID   string `json:"aid"`
}

type AcceptAnswerResponse struct {
	Question Question `json:"question"`
}

type GetSimilarQuestionsRequest struct {
	Q string `json:"q"`
}

type GetSimilarQuestionsResponse struct {
	Threads    []SimilarThread `json:"threads"`
	Superseded bool            `json:"superseded"`
}

type CheckGuardrailsRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`

	// DismissedTitle is the title for which the user dismissed the similar
	// threads last time.
	DismissedTitle string `json:"dismissedTitle"`
}

type CheckGuardrailsResponse struct {
	Profanity      ProfanityResult `json:"profanity"`
	SimilarThreads []SimilarThread `json:"similarThreads"`
	ShowSimilar    bool            `json:"showSimilar"`
	CanSubmit      bool            `json:"canSubmit"`
	Superseded     bool            `json:"superseded"`
}

package model

type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Author struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Reputation  int    `json:"reputation"`
}

type Tag struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount"`
}

type Question struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Body             string   `json:"body"`
	AIContextSummary string   `json:"aiContextSummary,omitempty"`
	Score            int      `json:"score"`
	ViewCount        int      `json:"viewCount"`
	AnswerCount      int      `json:"answerCount"`
	AcceptedAnswerID string   `json:"acceptedAnswerId,omitempty"`
	Status           string   `json:"status"`
	Author           Author   `json:"author"`
	Tags             []Tag    `json:"tags"`
	UserVote         *int     `json:"userVote"`
	Answers          []Answer `json:"answers"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

type Answer struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	Body       string `json:"body"`
	Score      int    `json:"score"`
	IsAccepted bool   `json:"isAccepted"`
	Author     Author `json:"author"`
	UserVote   *int   `json:"userVote"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type BadgeCriteria struct {
	Type      string `json:"type"`
	Threshold int    `json:"threshold,omitempty"`
}

type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Tier        string        `json:"tier"`
	Icon        string        `json:"icon"`
	Criteria    BadgeCriteria `json:"criteria"`
}

type AwardedBadge struct {
	Badge
	AwardedAt string `json:"awardedAt"`
}

type ReputationEntry struct {
	ID         string `json:"id"`
	Change     int    `json:"change"`
	Reason     string `json:"reason"`
	SourceType string `json:"sourceType,omitempty"`
	SourceID   string `json:"sourceId,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

type UpgradeRequest struct {
	ID               string         `json:"id"`
	RequesterID      string         `json:"requesterId"`
	TeamID           string         `json:"teamId,omitempty"`
	Type             string         `json:"type"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	ApprovalLevel    string         `json:"approvalLevel"`
	Status           string         `json:"status"`
	EstimatedCredits int            `json:"estimatedCredits"`
	Context          map[string]any `json:"context"`
	Deliverables     map[string]any `json:"deliverables,omitempty"`
	DenialReason     string         `json:"denialReason,omitempty"`
	CreatedAt        string         `json:"createdAt"`
	DecidedAt        string         `json:"decidedAt,omitempty"`
	DecidedBy        string         `json:"decidedBy,omitempty"`
	FulfilledAt      string         `json:"fulfilledAt,omitempty"`

	// Only filled when listing requests as a decider.
	Actionable bool `json:"actionable"`
	AdminOnly  bool `json:"adminOnly"`
}

type SimilarThread struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

type ProfanityResult struct {
	Flagged      bool     `json:"flagged"`
	Reason       string   `json:"reason,omitempty"`
	Severity     string   `json:"severity"`
	FlaggedTerms []string `json:"flaggedTerms"`
}

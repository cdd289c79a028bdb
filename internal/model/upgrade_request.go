package model

type CreateUpgradeRequestRequest struct {
	TeamID           string         `json:"teamId"`
	Type             string         `json:"type"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	ApprovalLevel    string         `json:"approvalLevel"`
	EstimatedCredits int            `json:"estimatedCredits"`
	Context          map[string]any `json:"context"`
}

type CreateUpgradeRequestResponse = UpgradeRequest

type GetUpgradeRequestsRequest struct {
	// Role is requester, approver or admin.
	Role string `json:"role"`
}

type GetUpgradeRequestsResponse struct {
	Requests []UpgradeRequest `json:"requests"`
}

type GetUpgradeRequestRequest struct {
	ID string `json:"id"`
}

type GetUpgradeRequestResponse = UpgradeRequest

type ApproveUpgradeRequestRequest struct {
	ID string `json:"id"`
}

type ApproveUpgradeRequestResponse = UpgradeRequest

type DenyUpgradeRequestRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type DenyUpgradeRequestResponse = UpgradeRequest

type FulfilUpgradeRequestRequest struct {
	ID           string         `json:"id"`
	Deliverables map[string]any `json:"deliverables"`
}

type FulfilUpgradeRequestResponse = UpgradeRequest

type CancelUpgradeRequestRequest struct {
	ID string `json:"id"`
}

type CancelUpgradeRequestResponse = UpgradeRequest

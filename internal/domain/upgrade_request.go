package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/abi-lab/backend/internal/common"
	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/enum"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/pubsub"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const requesterListRole = "requester"

type UpgradeRequestDomain interface {
	Create(context.Context, *model.CreateUpgradeRequestRequest) (*model.CreateUpgradeRequestResponse, error)
	GetList(context.Context, *model.GetUpgradeRequestsRequest) (*model.GetUpgradeRequestsResponse, error)
	Get(context.Context, *model.GetUpgradeRequestRequest) (*model.GetUpgradeRequestResponse, error)
	Approve(context.Context, *model.ApproveUpgradeRequestRequest) (*model.ApproveUpgradeRequestResponse, error)
	Deny(context.Context, *model.DenyUpgradeRequestRequest) (*model.DenyUpgradeRequestResponse, error)
	Fulfil(context.Context, *model.FulfilUpgradeRequestRequest) (*model.FulfilUpgradeRequestResponse, error)
	Cancel(context.Context, *model.CancelUpgradeRequestRequest) (*model.CancelUpgradeRequestResponse, error)
}

type upgradeRequestDomain struct {
	upgradeRequestRepo repository.UpgradeRequestRepository
	profileRepo        repository.ProfileRepository
	publisher          pubsub.Publisher
}

func NewUpgradeRequestDomain(
	upgradeRequestRepo repository.UpgradeRequestRepository,
	profileRepo repository.ProfileRepository,
	publisher pubsub.Publisher,
) *upgradeRequestDomain {
	return &upgradeRequestDomain{
		upgradeRequestRepo: upgradeRequestRepo,
		profileRepo:        profileRepo,
		publisher:          publisher,
	}
}

func (d *upgradeRequestDomain) Create(
	ctx context.Context, req *model.CreateUpgradeRequestRequest,
) (*model.CreateUpgradeRequestResponse, error) {
	if strings.TrimSpace(req.Type) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty request type")
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	if req.EstimatedCredits < 0 {
		return nil, errorx.New(errorx.BadRequest, "Estimated credits must not be negative")
	}

	level, err := d.approvalLevel(ctx, req)
	if err != nil {
		return nil, err
	}

	requestContext := entity.Map(req.Context)
	if requestContext == nil {
		requestContext = entity.Map{}
	}

	upgradeRequest := &entity.UpgradeRequest{
		Base:             entity.Base{ID: uuid.NewString()},
		RequesterID:      xcontext.RequestUserID(ctx),
		TeamID:           nullString(req.TeamID),
		Type:             req.Type,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		ApprovalLevel:    level,
		Status:           entity.UpgradeRequestPending,
		EstimatedCredits: req.EstimatedCredits,
		Context:          requestContext,
	}

	if err := d.upgradeRequestRepo.Create(ctx, upgradeRequest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create upgrade request: %v", err)
		return nil, errorx.Unknown
	}

	d.publishStatus(ctx, upgradeRequest)

	resp := model.ConvertUpgradeRequest(upgradeRequest)
	return &resp, nil
}

// approvalLevel takes the level chosen by the requester. Without a choice,
// expensive requests need an admin.
func (d *upgradeRequestDomain) approvalLevel(
	ctx context.Context, req *model.CreateUpgradeRequestRequest,
) (entity.Role, error) {
	if req.ApprovalLevel == "" {
		if req.EstimatedCredits >= xcontext.Configs(ctx).Approval.AdminCreditThreshold {
			return entity.RoleAdmin, nil
		}

		return entity.RoleApprover, nil
	}

	level, err := enum.ToEnum[entity.Role](req.ApprovalLevel)
	if err != nil || level == entity.RoleMember {
		return "", errorx.New(errorx.BadRequest, "Invalid approval level %s", req.ApprovalLevel)
	}

	return level, nil
}

func (d *upgradeRequestDomain) viewerRole(ctx context.Context) (entity.Role, error) {
	profile, err := d.profileRepo.Get(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.RoleMember, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get profile: %v", err)
		return "", errorx.Unknown
	}

	return profile.Role, nil
}

func (d *upgradeRequestDomain) GetList(
	ctx context.Context, req *model.GetUpgradeRequestsRequest,
) (*model.GetUpgradeRequestsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	if req.Role == "" || req.Role == requesterListRole {
		requests, err := d.upgradeRequestRepo.GetListByRequesterID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get upgrade requests: %v", err)
			return nil, errorx.Unknown
		}

		clientRequests := []model.UpgradeRequest{}
		for i := range requests {
			clientRequests = append(clientRequests, model.ConvertUpgradeRequest(&requests[i]))
		}

		return &model.GetUpgradeRequestsResponse{Requests: clientRequests}, nil
	}

	listRole, err := enum.ToEnum[entity.Role](req.Role)
	if err != nil || listRole == entity.RoleMember {
		return nil, errorx.New(errorx.BadRequest, "Invalid role %s", req.Role)
	}

	role, err := d.viewerRole(ctx)
	if err != nil {
		return nil, err
	}

	if !role.AtLeast(listRole) {
		return nil, errorx.New(errorx.PermissionDenied, "Your role is lower than %s", listRole)
	}

	requests, err := d.upgradeRequestRepo.GetListByStatus(ctx, entity.UpgradeRequestPending)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending upgrade requests: %v", err)
		return nil, errorx.Unknown
	}

	clientRequests := []model.UpgradeRequest{}
	for i := range requests {
		clientRequest := model.ConvertUpgradeRequest(&requests[i])
		clientRequest.Actionable = listRole.AtLeast(requests[i].ApprovalLevel) &&
			requests[i].RequesterID != userID
		clientRequest.AdminOnly = requests[i].ApprovalLevel == entity.RoleAdmin
		clientRequests = append(clientRequests, clientRequest)
	}

	return &model.GetUpgradeRequestsResponse{Requests: clientRequests}, nil
}

func (d *upgradeRequestDomain) Get(
	ctx context.Context, req *model.GetUpgradeRequestRequest,
) (*model.GetUpgradeRequestResponse, error) {
	upgradeRequest, err := d.upgradeRequestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "request")
	}

	if upgradeRequest.RequesterID != xcontext.RequestUserID(ctx) {
		role, err := d.viewerRole(ctx)
		if err != nil {
			return nil, err
		}

		if !role.AtLeast(entity.RoleApprover) {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	resp := model.ConvertUpgradeRequest(upgradeRequest)
	return &resp, nil
}

// decide moves a pending request to the decided status. Only a viewer whose
// role reaches the approval level of the request can decide it, and never on
// an own request.
func (d *upgradeRequestDomain) decide(
	ctx context.Context, id string, to entity.UpgradeRequestStatus, updates map[string]any,
) (*entity.UpgradeRequest, error) {
	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	upgradeRequest, err := d.upgradeRequestRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "request")
	}

	if upgradeRequest.RequesterID == userID {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot decide your own request")
	}

	role, err := d.viewerRole(ctx)
	if err != nil {
		return nil, err
	}

	if !role.AtLeast(upgradeRequest.ApprovalLevel) {
		return nil, errorx.New(errorx.PermissionDenied, "The request needs an %s", upgradeRequest.ApprovalLevel)
	}

	now := time.Now()
	values := map[string]any{
		"decided_at": sql.NullTime{Valid: true, Time: now},
		"decided_by": nullString(userID),
	}
	for k, v := range updates {
		values[k] = v
	}

	if err := d.transit(ctx, upgradeRequest, entity.UpgradeRequestPending, to, values); err != nil {
		return nil, err
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	return upgradeRequest, nil
}

// transit changes the status if the request is still in the from status.
func (d *upgradeRequestDomain) transit(
	ctx context.Context,
	upgradeRequest *entity.UpgradeRequest,
	from, to entity.UpgradeRequestStatus,
	updates map[string]any,
) error {
	if upgradeRequest.Status != from {
		return errorx.New(errorx.Conflict, "Cannot change a %s request to %s", upgradeRequest.Status, to)
	}

	err := d.upgradeRequestRepo.UpdateStatus(ctx, upgradeRequest.ID, from, to, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.Conflict, "The request has been changed by someone else")
		}

		xcontext.Logger(ctx).Errorf("Cannot update status of request: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *upgradeRequestDomain) reload(ctx context.Context, id string) (*model.UpgradeRequest, error) {
	upgradeRequest, err := d.upgradeRequestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "request")
	}

	d.publishStatus(ctx, upgradeRequest)

	resp := model.ConvertUpgradeRequest(upgradeRequest)
	return &resp, nil
}

func (d *upgradeRequestDomain) Approve(
	ctx context.Context, req *model.ApproveUpgradeRequestRequest,
) (*model.ApproveUpgradeRequestResponse, error) {
	if _, err := d.decide(ctx, req.ID, entity.UpgradeRequestApproved, nil); err != nil {
		return nil, err
	}

	return d.reload(ctx, req.ID)
}

func (d *upgradeRequestDomain) Deny(
	ctx context.Context, req *model.DenyUpgradeRequestRequest,
) (*model.DenyUpgradeRequestResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, errorx.New(errorx.BadRequest, "A reason is required to deny a request")
	}

	_, err := d.decide(ctx, req.ID, entity.UpgradeRequestDenied, map[string]any{
		"denial_reason": nullString(reason),
	})
	if err != nil {
		return nil, err
	}

	return d.reload(ctx, req.ID)
}

// Fulfil delivers an approved request. Only the system operators (admins) can
// do it.
func (d *upgradeRequestDomain) Fulfil(
	ctx context.Context, req *model.FulfilUpgradeRequestRequest,
) (*model.FulfilUpgradeRequestResponse, error) {
	if err := requireRole(ctx, d.profileRepo, entity.RoleAdmin); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	upgradeRequest, err := d.upgradeRequestRepo.GetByIDForUpdate(ctx, req.ID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "request")
	}

	deliverables := entity.Map(req.Deliverables)
	if deliverables == nil {
		deliverables = entity.Map{}
	}

	err = d.transit(ctx, upgradeRequest, entity.UpgradeRequestApproved, entity.UpgradeRequestFulfilled,
		map[string]any{
			"fulfilled_at": sql.NullTime{Valid: true, Time: time.Now()},
			"deliverables": deliverables,
		})
	if err != nil {
		return nil, err
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	return d.reload(ctx, req.ID)
}

func (d *upgradeRequestDomain) Cancel(
	ctx context.Context, req *model.CancelUpgradeRequestRequest,
) (*model.CancelUpgradeRequestResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	upgradeRequest, err := d.upgradeRequestRepo.GetByIDForUpdate(ctx, req.ID)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "request")
	}

	if upgradeRequest.RequesterID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the requester can cancel the request")
	}

	err = d.transit(ctx, upgradeRequest, entity.UpgradeRequestPending, entity.UpgradeRequestCancelled, nil)
	if err != nil {
		return nil, err
	}

	if err := commit(ctx); err != nil {
		return nil, err
	}

	return d.reload(ctx, req.ID)
}

func (d *upgradeRequestDomain) publishStatus(ctx context.Context, upgradeRequest *entity.UpgradeRequest) {
	common.PublishEvent(ctx, d.publisher, common.TopicRequestStatusChanged, upgradeRequest.ID, map[string]any{
		"requestId":   upgradeRequest.ID,
		"requesterId": upgradeRequest.RequesterID,
		"status":      upgradeRequest.Status,
	})
}

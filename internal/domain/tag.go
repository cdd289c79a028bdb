package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile("^[a-z0-9]+(-[a-z0-9]+)*$")

type TagDomain interface {
	GetList(context.Context, *model.GetTagsRequest) (*model.GetTagsResponse, error)
	Create(context.Context, *model.CreateTagRequest) (*model.CreateTagResponse, error)
}

type tagDomain struct {
	tagRepo     repository.TagRepository
	profileRepo repository.ProfileRepository
}

func NewTagDomain(
	tagRepo repository.TagRepository,
	profileRepo repository.ProfileRepository,
) *tagDomain {
	return &tagDomain{
		tagRepo:     tagRepo,
		profileRepo: profileRepo,
	}
}

func (d *tagDomain) GetList(ctx context.Context, req *model.GetTagsRequest) (*model.GetTagsResponse, error) {
	tags, err := d.tagRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all tags: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetTagsResponse{Tags: model.ConvertTags(tags)}, nil
}

func (d *tagDomain) Create(ctx context.Context, req *model.CreateTagRequest) (*model.CreateTagResponse, error) {
	if err := requireRole(ctx, d.profileRepo, entity.RoleAdmin); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty tag name")
	}

	slug := req.Slug
	if slug == "" {
		slug = generateSlug(name)
	}

	if !slugPattern.MatchString(slug) {
		return nil, errorx.New(errorx.BadRequest, "Invalid slug %s", slug)
	}

	if _, err := d.tagRepo.GetBySlug(ctx, slug); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Tag %s already exists", slug)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get tag: %v", err)
		return nil, errorx.Unknown
	}

	tag := &entity.Tag{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        name,
		Slug:        slug,
		Description: req.Description,
	}

	if err := d.tagRepo.Create(ctx, tag); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create tag: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.ConvertTag(tag)
	return &resp, nil
}

func generateSlug(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	return strings.Join(words, "-")
}

// requireRole checks the role of the requesting user. Roles are totally
// ordered, a higher role has every authority of the lower ones.
func requireRole(ctx context.Context, profileRepo repository.ProfileRepository, role entity.Role) error {
	profile, err := profileRepo.Get(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		xcontext.Logger(ctx).Errorf("Cannot get profile: %v", err)
		return errorx.Unknown
	}

	if !profile.Role.AtLeast(role) {
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}

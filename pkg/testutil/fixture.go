package testutil

import (
	"context"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/internal/repository"
)

var (
	// Members.
	Profile1 = &entity.Profile{UserID: "user1", DisplayName: "User One", Role: entity.RoleMember}
	Profile2 = &entity.Profile{UserID: "user2", DisplayName: "User Two", Role: entity.RoleMember}
	Profile3 = &entity.Profile{UserID: "user3", DisplayName: "User Three", Role: entity.RoleMember}

	ApproverProfile = &entity.Profile{UserID: "approver1", DisplayName: "Approver", Role: entity.RoleApprover}
	AdminProfile    = &entity.Profile{UserID: "admin1", DisplayName: "Admin", Role: entity.RoleAdmin}

	Profiles = []*entity.Profile{Profile1, Profile2, Profile3, ApproverProfile, AdminProfile}

	Tag1 = &entity.Tag{Base: entity.Base{ID: "tag1"}, Name: "Aluminium", Slug: "aluminium"}
	Tag2 = &entity.Tag{Base: entity.Base{ID: "tag2"}, Name: "Steel", Slug: "steel"}
	Tag3 = &entity.Tag{Base: entity.Base{ID: "tag3"}, Name: "Pricing", Slug: "pricing"}

	Tags = []*entity.Tag{Tag1, Tag2, Tag3}
)

// CreateFixtureDb inserts the fixture profiles and tags. The fixture values
// are copied, so tests can't modify them.
func CreateFixtureDb(ctx context.Context) {
	profileRepo := repository.NewProfileRepository()
	for _, p := range Profiles {
		profile := *p
		if err := profileRepo.CreateIfNotExists(ctx, &profile); err != nil {
			panic(err)
		}
	}

	tagRepo := repository.NewTagRepository()
	for _, t := range Tags {
		tag := *t
		if err := tagRepo.Create(ctx, &tag); err != nil {
			panic(err)
		}
	}
}

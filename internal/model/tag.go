package model

type GetTagsRequest struct{}

type GetTagsResponse struct {
	Tags []Tag `json:"tags"`
}

type CreateTagRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type CreateTagResponse = Tag

type GetBadgesRequest struct{}

type GetBadgesResponse struct {
	Badges []Badge `json:"badges"`
}

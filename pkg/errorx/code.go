package errorx

import "net/http"

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009

	// Community codes
	ContentFlagged Code = 200001
	Conflict       Code = 200002
)

type codeInfo struct {
	status int
	kind   string
}

var codeInfos = map[Code]codeInfo{
	BadRequest:       {http.StatusBadRequest, "validation_error"},
	BadResponse:      {http.StatusInternalServerError, "internal"},
	PermissionDenied: {http.StatusForbidden, "forbidden"},
	NotFound:         {http.StatusNotFound, "not_found"},
	Unauthenticated:  {http.StatusUnauthorized, "unauthenticated"},
	AlreadyExists:    {http.StatusConflict, "conflict"},
	Internal:         {http.StatusInternalServerError, "internal"},
	Unavailable:      {http.StatusServiceUnavailable, "internal"},
	NotImplemented:   {http.StatusNotImplemented, "internal"},
	ContentFlagged:   {http.StatusConflict, "content_flagged"},
	Conflict:         {http.StatusConflict, "conflict"},
}

// HTTPStatus returns the status code which the HTTP layer responds with.
func (c Code) HTTPStatus() int {
	if info, ok := codeInfos[c]; ok {
		return info.status
	}

	return http.StatusInternalServerError
}

// Kind returns the stable code which clients of the HTTP API match on.
func (c Code) Kind() string {
	if info, ok := codeInfos[c]; ok {
		return info.kind
	}

	return "internal"
}

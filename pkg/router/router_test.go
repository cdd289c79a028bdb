package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/testutil"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	ID       string   `json:"id"`
	Page     int      `json:"page"`
	Body     string   `json:"body"`
	TagIDs   []string `json:"tagIds"`
	Included bool     `json:"included"`
}

type echoResponse = echoRequest

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	return req, nil
}

func Test_Router_Binding(t *testing.T) {
	ctx := testutil.MockContext()
	r := New(ctx)
	GET(r, "/items/{id}", echo)
	POST(r, "/items/{id}", echo)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   string
	}{
		{
			name:   "path and query",
			method: http.MethodGet,
			target: "/items/item1?page=2&included=true",
			want:   `{"id":"item1","page":2,"body":"","tagIds":null,"included":true}`,
		},
		{
			name:   "json body",
			method: http.MethodPost,
			target: "/items/item1",
			body:   `{"body":"hello","tagIds":["a","b"]}`,
			want:   `{"id":"item1","page":0,"body":"hello","tagIds":["a","b"],"included":false}`,
		},
		{
			name:   "path wins over body",
			method: http.MethodPost,
			target: "/items/item1",
			body:   `{"id":"other"}`,
			want:   `{"id":"item1","page":0,"body":"","tagIds":null,"included":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.Handler().ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			require.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func Test_Router_Errors(t *testing.T) {
	ctx := testutil.MockContext()
	r := New(ctx)
	GET(r, "/items/{id}", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, errorx.New(errorx.NotFound, "Not found item")
	})
	POST(r, "/items", echo)
	GET(r, "/panic", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, context.DeadlineExceeded
	})

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		want       string
	}{
		{
			name:       "domain error",
			method:     http.MethodGet,
			target:     "/items/item1",
			wantStatus: http.StatusNotFound,
			want:       `{"code":"not_found","message":"Not found item"}`,
		},
		{
			name:       "unknown error is hidden",
			method:     http.MethodGet,
			target:     "/panic",
			wantStatus: http.StatusInternalServerError,
			want:       `{"code":"internal","message":"Request failed"}`,
		},
		{
			name:       "invalid json",
			method:     http.MethodPost,
			target:     "/items",
			body:       `{"body":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			target:     "/unknown",
			wantStatus: http.StatusNotFound,
			want:       `{"code":"not_found","message":"Not found API"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.Handler().ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.want != "" {
				require.JSONEq(t, tt.want, w.Body.String())
			}
		})
	}
}

func Test_Router_Middlewares(t *testing.T) {
	ctx := testutil.MockContext()
	r := New(ctx)

	var closedErr error
	closed := 0
	r.AddCloser(func(ctx context.Context) {
		closed++
		closedErr = xcontext.Error(ctx)
	})

	private := r.Branch()
	private.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	})
	DELETE(private, "/private/{id}", echo)

	public := r.Branch()
	public.Before(func(ctx context.Context) (context.Context, error) {
		return xcontext.WithRequestUserID(ctx, "user1"), nil
	})
	DELETE(public, "/public/{id}", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		require.Equal(t, "user1", xcontext.RequestUserID(ctx))
		return nil, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/private/item1", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.True(t, errorx.Is(closedErr, errorx.Unauthenticated))

	w = httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/public/item1", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())
	require.NoError(t, closedErr)

	require.Equal(t, 2, closed)
}

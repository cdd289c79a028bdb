package router

import (
	"context"
	"net/http"
	"time"

	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may enrich the context or stop
// the request by returning an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response was written. xcontext.Error returns the
// error of the handler, if any.
type CloserFunc func(ctx context.Context)

type Router struct {
	ctx     context.Context
	mux     *mux.Router
	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers receive contexts derived from ctx. So
// ctx should already carry the configs, logger and database.
func New(ctx context.Context) *Router {
	r := &Router{ctx: ctx, mux: mux.NewRouter()}
	r.mux.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = writeError(w, errorx.New(errorx.NotFound, "Not found API"))
	})
	r.mux.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = writeError(w, errorx.New(errorx.BadRequest, "Method not allowed"))
	})

	return r
}

// Branch returns a router sharing the same routes. Middlewares added to the
// branch don't affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:     r.ctx,
		mux:     r.mux,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

func (r *Router) Handler() http.Handler {
	cfg := xcontext.Configs(r.ctx).ApiServer
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](router *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(router, http.MethodGet, pattern, http.StatusOK, handler)
}

func POST[Request, Response any](router *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(router, http.MethodPost, pattern, http.StatusOK, handler)
}

func PATCH[Request, Response any](router *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(router, http.MethodPatch, pattern, http.StatusOK, handler)
}

// DELETE responds 204 without body on success.
func DELETE[Request, Response any](router *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(router, http.MethodDelete, pattern, http.StatusNoContent, handler)
}

func route[Request, Response any](
	router *Router, method, pattern string, status int, handler HandlerFunc[Request, Response],
) {
	befores := router.befores
	closers := router.closers

	router.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx := newRequestContext(r.Context(), router.ctx)
		ctx = xcontext.WithHTTPRequest(ctx, r)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		err := func() error {
			// Nothing was started yet, so a gone client can be dropped here.
			if err := ctx.Err(); err != nil {
				return errorx.New(errorx.Unavailable, "Request was cancelled")
			}

			for _, before := range befores {
				newCtx, err := before(ctx)
				if err != nil {
					return err
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}

			var req Request
			if err := bind(r, &req); err != nil {
				return err
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return err
			}

			if status == http.StatusNoContent {
				w.WriteHeader(status)
				return nil
			}

			if resp == nil {
				resp = new(Response)
			}

			if err := writeJSON(w, status, resp); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
			}

			return nil
		}()

		if err != nil {
			if err := writeError(w, err); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", err)
			}
		}

		ctx = xcontext.WithError(ctx, err)
		for _, closer := range closers {
			closer(ctx)
		}
	}).Methods(method)
}

package router

import (
	"context"
	"net/http"

	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after a handler. It may return a derived
// context to affect the rest of the chain; returning an error aborts the
// request with that error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the very end of a request, even if a middleware
// or the handler failed.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux
	ctx context.Context

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a root router. The given context must carry the database,
// configs, logger, and other process-wide dependencies; it becomes the base
// context of every request.
func New(ctx context.Context) *Router {
	return &Router{mux: http.NewServeMux(), ctx: ctx}
}

// Branch derives a router sharing the same mux but with an independent
// middleware chain.
func (r *Router) Branch() *Router {
	branch := &Router{mux: r.mux, ctx: r.ctx}
	branch.befores = append(branch.befores, r.befores...)
	branch.afters = append(branch.afters, r.afters...)
	branch.closers = append(branch.closers, r.closers...)
	return branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

func (r *Router) Handler() http.Handler {
	origins := xcontext.Configs(r.ctx).ApiServer.AllowCORS
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

// Websocket registers a GET endpoint whose handler upgrades the connection
// itself and writes no response envelope.
func Websocket[Request any](r *Router, pattern string, handler func(ctx context.Context, req *Request) error) {
	GET(r, pattern, func(ctx context.Context, req *Request) (*struct{}, error) {
		return nil, handler(ctx, req)
	})
}

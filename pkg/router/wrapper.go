package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

type requestState struct {
	response any
	err      error
}

type requestStateKey struct{}

func SetResponse(ctx context.Context, resp any) {
	if state, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		state.response = resp
	}
}

// Response returns the object the handler produced. It is only non-nil in
// After middlewares and closers.
func Response(ctx context.Context) any {
	if state, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		return state.response
	}

	return nil
}

func SetError(ctx context.Context, err error) {
	if state, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		state.err = err
	}
}

func Error(ctx context.Context) error {
	if state, ok := ctx.Value(requestStateKey{}).(*requestState); ok {
		return state.err
	}

	return nil
}

func wrapHandler[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.WithHTTPRequest(r.ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = context.WithValue(ctx, requestStateKey{}, &requestState{})

		func() {
			defer func() {
				for _, closer := range r.closers {
					closer(ctx)
				}
			}()

			if req.Method != method {
				SetError(ctx, errorx.New(errorx.BadRequest, "Not supported method %s", req.Method))
				return
			}

			var body Request
			var err error
			switch method {
			case http.MethodGet:
				err = bindQuery(req, &body)
			case http.MethodPost:
				err = json.NewDecoder(req.Body).Decode(&body)
			}
			if err != nil {
				SetError(ctx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
				return
			}

			for _, before := range r.befores {
				nextCtx, err := before(ctx)
				if err != nil {
					SetError(ctx, err)
					return
				}

				if nextCtx != nil {
					ctx = nextCtx
				}
			}

			resp, err := handler(ctx, &body)
			if err != nil {
				SetError(ctx, err)
				return
			}

			if resp != nil {
				SetResponse(ctx, resp)
			}

			for _, after := range r.afters {
				nextCtx, err := after(ctx)
				if err != nil {
					SetError(ctx, err)
					return
				}

				if nextCtx != nil {
					ctx = nextCtx
				}
			}
		}()

		writeResult(ctx, w)
	}
}

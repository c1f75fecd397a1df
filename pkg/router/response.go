package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

// writeResult writes the response envelope. Endpoints that produced neither a
// response nor an error (websocket upgrades) get nothing written.
func writeResult(ctx context.Context, w http.ResponseWriter) {
	if err := Error(ctx); err != nil {
		if werr := writeJSON(w, newErrorResponse(err)); werr != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", werr)
		}
		return
	}

	if resp := Response(ctx); resp != nil {
		if err := writeJSON(w, newResponse(resp)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}

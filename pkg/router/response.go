package router

import (
	"encoding/json"
	"net/http"

	"github.com/abi-lab/backend/pkg/errorx"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) error {
	errx := errorx.From(err)
	return writeJSON(w, errx.Code.HTTPStatus(), errorResponse{
		Code:    errx.Code.Kind(),
		Message: errx.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}

package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
)

// bind fills req with the JSON body (if any), the query parameters and the
// path variables of r. Path variables take precedence over the others.
func bind(r *http.Request, req any) error {
	if r.Body != nil && r.ContentLength != 0 && hasBody(r.Method) {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return errorx.New(errorx.BadRequest, "Invalid JSON body: %v", err)
		}
	}

	params := map[string]any{}
	for key, values := range r.URL.Query() {
		if len(values) == 1 {
			params[key] = values[0]
		} else {
			params[key] = values
		}
	}

	for key, value := range mux.Vars(r) {
		params[key] = value
	}

	if len(params) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(params); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid parameters: %v", err)
	}

	return nil
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPatch || method == http.MethodPut
}

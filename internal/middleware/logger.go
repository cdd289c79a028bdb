package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/abi-lab/backend/pkg/errorx"
	"github.com/abi-lab/backend/pkg/router"
	"github.com/abi-lab/backend/pkg/xcontext"
)

// Logger writes one access line per request: method, path, status, caller and
// latency. Domain errors are warnings, anything else is an error.
func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		caller := xcontext.RequestUserID(ctx)
		if caller == "" {
			caller = "-"
		}

		latency := time.Since(xcontext.StartTime(ctx))
		line := func(status int) string {
			return fmt.Sprintf("%s | %s | %d | %s | %s", req.Method, req.URL.Path, status, caller, latency)
		}

		err := xcontext.Error(ctx)
		if err == nil {
			xcontext.Logger(ctx).Infof("%s", line(http.StatusOK))
			return
		}

		var errx errorx.Error
		if errors.As(err, &errx) {
			xcontext.Logger(ctx).Warnf("%s | %s: %s", line(errx.Code.HTTPStatus()), errx.Code.Kind(), errx.Message)
			return
		}

		xcontext.Logger(ctx).Errorf("%s | %v", line(http.StatusInternalServerError), err)
	}
}

package router

import "context"

// requestContext carries the cancellation of the HTTP request and falls back
// to the server context for values (database, configs, logger...).
type requestContext struct {
	context.Context
	base context.Context
}

func newRequestContext(request, base context.Context) context.Context {
	return requestContext{Context: request, base: base}
}

func (c requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.base.Value(key)
}

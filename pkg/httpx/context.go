package httpx

import (
	"context"

	"github.com/freehekimteam/quietvector/pkg/jwtx"
)

type ctxKey string

const CtxKeySubject ctxKey = "subject"

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	return context.WithValue(ctx, CtxKeySubject, c.Subject)
}

// SubjectFromContext returns the admin identity set by AuthnMiddleware.
func SubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(CtxKeySubject).(string)
	return sub, ok && sub != ""
}

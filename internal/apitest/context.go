package apitest

import "context"

type ctxKey struct{}

func withAccount(ctx context.Context, acc *account) context.Context {
	return context.WithValue(ctx, ctxKey{}, acc)
}

func accountFrom(ctx context.Context) *account {
	return ctx.Value(ctxKey{}).(*account)
}

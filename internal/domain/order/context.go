package order

import "context"

type checkoutIDKey struct{}

func ContextWithCheckoutID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, checkoutIDKey{}, id)
}

func CheckoutIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(checkoutIDKey{}).(string); ok {
		return id
	}
	return ""
}

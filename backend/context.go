package backend

import (
	"context"

	"stayvia/globals"
)

// ContextWithCredentials stores the caller's credentials for later
// backend calls made on its behalf.
func ContextWithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, globals.CredentialsKey, creds)
}

func CredentialsFrom(ctx context.Context) Credentials {
	creds, _ := ctx.Value(globals.CredentialsKey).(Credentials)
	return creds
}

// For returns a client that forwards the credentials found in ctx.
func (c *Client) For(ctx context.Context) *Client {
	return c.WithCredentials(CredentialsFrom(ctx))
}

// Package identity carries the authenticated caller through a request.
//
// The middleware verifies the bearer token, builds an Identity from its
// claims and stores it in the request context:
//
//	id := identity.FromClaims(claims).WithRemoteIP(identity.ClientIP(r))
//	ctx = identity.Set(ctx, id)
//
// Handlers read it back with Get:
//
//	id, ok := identity.Get(r.Context())
package identity

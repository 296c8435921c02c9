// Package auth implements bearer-token pre-flight checks for outgoing
// streaming connections.
//
// The client never validates signatures; tokens are opaque to it. The checks
// here only catch tokens that are certain to be rejected (empty, or a JWT
// whose exp already passed) so the failure surfaces once as a configuration
// error instead of feeding the reconnect loop.
package auth

// Package httputil provides HTTP client helpers shared by the integration
// clients: retry with exponential backoff and transient-error marking.
//
// Response caching lives in pkg/cache; this package only decides whether a
// failed request is worth trying again.
package httputil

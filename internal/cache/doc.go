// Package cache provides the on-disk HTTP response cache used by weathr.
//
// Every cached response lives under its own directory, derived from the request
// key with a reversible escaping scheme, and is stored in a file named by the
// absolute instant the server said it expires:
//
//	<root>/https%3A%2F%2Fapi.weather.gov%2Fpoints%2F39.7456,-97.0892/20261019T183000Z
//
// Key features:
//   - Expiration comes from the server (the HTTP Expires header), not from a local TTL
//   - Expired entries are swept when their key is read again; nothing runs in the background
//   - Writes go through a temp file and rename, so readers never see partial bodies
//   - A store without a root directory is disabled and every operation is a no-op
//
// There is no locking between processes. Two concurrent runs against the same
// key may race on write and sweep; the last rename wins.
package cache

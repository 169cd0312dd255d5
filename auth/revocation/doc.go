// Package revocation holds the list of bearer tokens invalidated by logout.
//
// MemoryStore is the default; RedisStore shares the list between instances.
// A Janitor component purges entries whose expiry has passed, once per
// cleanup period. Only the identity service writes; the request gate reads
// through auth.RevocationChecker.
package revocation

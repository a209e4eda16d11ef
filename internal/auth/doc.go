package auth

// Package auth provides the two keyed primitives the service runs on:
//
// - Password fingerprints: HMAC-SHA256 over the credential pair, keyed by
//   the process secret. Stores only ever see fingerprints.
// - Admin session tokens: HS256 JWTs carried in a cookie, signed with the
//   same secret.

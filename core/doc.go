// Package core contains the credential and session domain: credentials with
// expiry semantics, the keyring that caches them, and the session manager
// that derives them from identity-provider calls. Transport and API adapters
// depend on this package; core must not depend on them.
package core

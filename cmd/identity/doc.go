// Package identity owns user records: the email used to log in and the
// password verifier stored in place of the plaintext.
//
// The store contract is deliberately small: exact-match lookup by email and
// atomic creation. Email uniqueness is enforced at the storage layer (a
// unique index in Postgres, a single mutex in the memory store), never by
// application-level check-then-insert, so two concurrent registrations for
// the same email cannot both succeed.
package identity

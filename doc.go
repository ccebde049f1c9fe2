// Package accounts implements a minimal user-account service: registration,
// password login, stateless session tokens, and an authorization gate for
// the authenticated account's routes.
package accounts

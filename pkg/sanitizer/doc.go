// Package sanitizer normalizes identifiers taken from requests before they are
// validated, compared or stored.
//
// All functions are idempotent: applying them twice gives the same result as
// applying them once. None of them fail; invalid input is left for the
// validators to reject.
package sanitizer

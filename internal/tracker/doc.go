// Package tracker assesses which surveillance and advertising entities
// likely hold data on a scan subject, based on the platforms the subject
// has identities on. Detection is a static registry lookup: no network
// calls are made.
package tracker

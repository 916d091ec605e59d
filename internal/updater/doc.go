// Package updater tells users when a newer release is published. The latest
// GitHub release is checked at most once a day in the background and the
// result cached in ~/.pastaga/version-check.json; the banner is printed from
// that cache so startup never waits on the network.
package updater

// Package updater implements self-update for source installs. Check
// compares the running version against the version.json published on
// the repository's main branch; Apply pulls the branch into the local
// checkout and rebuilds the binary in place. Machines that installed
// from a release artifact rather than a checkout get ErrNoCheckout and
// are expected to update through their package channel.
package updater

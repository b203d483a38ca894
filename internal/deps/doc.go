// Package deps probes for the external tools a build needs.
//
// A probe is a command line such as "cmake --version"; the dependency is
// installed when the probe exits 0. Checks are advisory: they log the result
// for every dependency and return a [Report], but never fail the build.
package deps

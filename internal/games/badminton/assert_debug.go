//go:build badmintondebug

package badminton

// abortOnFault makes invariant faults panic in debug builds.
const abortOnFault = true

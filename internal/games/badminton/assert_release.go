//go:build !badmintondebug

package badminton

// abortOnFault is off in release builds; faults are latched on the session.
const abortOnFault = false

//go:build !oxyrelease

package mesh

// debugChecks enables the contract assertions that release builds skip.
const debugChecks = true

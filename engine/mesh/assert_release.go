//go:build oxyrelease

package mesh

const debugChecks = false

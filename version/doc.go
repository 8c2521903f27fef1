// Package version reports the build version of the binaries.
package version

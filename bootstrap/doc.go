// Package bootstrap runs the binaries of this module: it validates the
// typed config, builds the logger, starts registered components in order,
// runs configure callbacks and stops everything in reverse order.
//
// Long-running processes such as the mock API use Run. One-shot commands
// such as the CLI use RunTask.
package bootstrap

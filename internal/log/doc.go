// Package log provides slog.Logger constructors for campuscrawl.
//
// All components receive a *slog.Logger via dependency injection rather
// than logging through a package-level default. The constructors here
// only decide handler format and verbosity.
package log

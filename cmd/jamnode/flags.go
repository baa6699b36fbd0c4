package main

import "flag"

// newFlagSet returns a FlagSet using ContinueOnError so callers control
// error handling and exit codes themselves rather than letting the flag
// package call os.Exit directly.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return fs
}

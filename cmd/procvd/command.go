package main

// command bundles the state shared across procvd's subcommands. It is
// empty today (each subcommand builds its own dependencies from flags)
// but exists so tests can call methods on it directly instead of going
// through cobra.
type command struct{}

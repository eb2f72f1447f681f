package main

import "time"

// RunFlags holds the flags for "procvd run". Kept as a plain struct,
// decoupled from cobra, so the run logic can be tested without going
// through flag parsing.
type RunFlags struct {
	ConfigPath   string
	LogFilePath  string
	LogLevel     string
	NoColor      bool
	HistoryDSN   string
	MetricsAddr  string
	ShutdownWait time.Duration
}

// ConfigInitFlags holds the flags for "procvd config init".
type ConfigInitFlags struct {
	Type   string
	Name   string
	Output string
	Force  bool
}

// MetricsFlags holds the flags for "procvd metrics serve".
type MetricsFlags struct {
	Addr string
}

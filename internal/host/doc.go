// Package host stands in for the build tool that drives a run: it loads a
// recorded transcript (inputs with their stage maps, compiler writes and
// diagnostics), replays it onto an output.Run and writes emitted files to disk.
package host

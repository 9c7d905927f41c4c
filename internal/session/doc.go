// Package session drives one exchange with an offspring process.
//
// A session allocates the pipe triple, launches the offspring, writes one
// line to its stdin, reads one line from each of its stdout and stderr,
// releases every descriptor it retained and waits for the offspring to exit.
//
// The original moves through these states:
//
//	Init -> PipesCreated -> Launched -> WroteInput -> ReadOutput -> ReadError -> Cleanup -> Done
//
// A launch failure ends in LaunchFailed. Descriptor exhaustion or a stream
// I/O failure ends in Failed.
package session

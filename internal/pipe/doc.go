// Package pipe allocates the three unidirectional pipes that become a
// child's standard input, output and error.
//
// Every descriptor is created close-on-exec, so a pipe end reaches a new
// process image only when it is handed over explicitly. Allocation is all
// or nothing: a failure releases the pipes that were already created.
package pipe

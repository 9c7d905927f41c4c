// Package pipechild runs an external program as a child process and talks to
// it over three pipes bound to the child's standard input, output and error.
//
// # Basic Usage
//
// A binary using pipechild must let the offspring role take over before it
// does anything else, because the child is started by re-executing the
// binary itself:
//
//	func main() {
//	    if pipechild.CurrentRole() == pipechild.RoleOffspring {
//	        _ = pipechild.RunOffspring(pipechild.NopLogger())
//	    }
//
//	    res, err := pipechild.Run(context.Background(),
//	        pipechild.WithProgram("./program"),
//	        pipechild.WithMessage("Hello Child!"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println(res.Output, res.Error)
//	}
//
// # Session
//
// Run allocates the pipes, launches the program, writes one line to its
// stdin and closes it, reads one line from each of stdout and stderr, closes
// every descriptor and waits for the program to exit. A program that cannot
// be executed is reported as LaunchFailedError as soon as the exec fails;
// Run never blocks on the streams in that case.
//
// # Read order
//
// By default stdout and stderr are drained concurrently. WithReadOrder
// (ReadSequential) reads stdout first and then stderr; a program that fills
// the stderr pipe before writing its first stdout line deadlocks that mode.
//
// # Error Handling
//
// Failures are typed:
//
//	res, err := pipechild.Run(ctx)
//	if launchErr, ok := errors.AsType[*pipechild.LaunchFailedError](err); ok {
//	    fmt.Println("cannot run", launchErr.Program, launchErr.Reason)
//	}
//
// End-of-data on a stream is not an error: Result.OutputEOF and
// Result.ErrorEOF report a stream that closed before sending a line.
package pipechild

// Package launch starts the offspring process and rewires its standard
// streams to a pipe triple.
//
// The Go runtime cannot fork without exec, so duplication is a re-exec of the
// current binary with a role marker in its environment. The binary's main
// function must dispatch to RunOffspring before doing anything else:
//
//	func main() {
//	    if launch.CurrentRole() == launch.RoleOffspring {
//	        launch.RunOffspring(log) // never returns in the offspring role
//	    }
//	    ...
//	}
//
// The offspring receives its three pipe ends and the notification channel as
// inherited descriptors 3 to 6. It moves the pipe ends onto 0, 1 and 2,
// closes the originals and replaces its image with the target program. If
// that fails it reports the reason over the notification channel and exits.
package launch

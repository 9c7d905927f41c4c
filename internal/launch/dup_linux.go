//go:build linux

package launch

import "golang.org/x/sys/unix"

// dupOnto makes newfd refer to oldfd's open file. The copy is not
// close-on-exec.
func dupOnto(oldfd, newfd int) error {
	return unix.Dup3(oldfd, newfd, 0)
}

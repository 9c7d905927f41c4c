package launch

import (
	"os"
	"strings"
)

const (
	// roleEnv marks a process started by Spawn.
	roleEnv = "PIPECHILD_ROLE"
	// offspringValue is the roleEnv value of the offspring role.
	offspringValue = "offspring"
	// offspringArg0 is argv[0] of the re-executed binary.
	offspringArg0 = "pipechild-offspring"
)

// Descriptor numbers of the ends inherited by the offspring.
const (
	inputFd  = 3
	outputFd = 4
	errorFd  = 5
	notifyFd = 6
)

// Role tells which side of the launch the calling process is on.
type Role int

const (
	// RoleOriginal is the controlling process.
	RoleOriginal Role = iota
	// RoleOffspring is a process started by Spawn that has not yet
	// replaced its image.
	RoleOffspring
)

func (r Role) String() string {
	switch r {
	case RoleOriginal:
		return "original"
	case RoleOffspring:
		return "offspring"
	default:
		return "unknown"
	}
}

// CurrentRole reports the role of the calling process.
func CurrentRole() Role {
	if os.Getenv(roleEnv) == offspringValue {
		return RoleOffspring
	}

	return RoleOriginal
}

// offspringEnv returns env with the role marker set.
func offspringEnv(env []string) []string {
	return append(withoutRole(env), roleEnv+"="+offspringValue)
}

// withoutRole returns env without the role marker, so the target program
// does not think it is an offspring.
func withoutRole(env []string) []string {
	out := make([]string, 0, len(env))

	for _, kv := range env {
		if strings.HasPrefix(kv, roleEnv+"=") {
			continue
		}

		out = append(out, kv)
	}

	return out
}

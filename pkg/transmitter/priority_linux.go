//go:build linux
// +build linux

package transmitter

import "golang.org/x/sys/unix"

// niceness is the process priority requested for a transmission (requires CAP_SYS_NICE).
const niceness = -10

// raisePriority lowers the nice value of the process.
func raisePriority() error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, niceness)
}

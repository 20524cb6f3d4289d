//go:build windows

package shell

import (
	"golang.org/x/sys/windows"
)

// enableVirtualTerminal turns on ANSI escape processing for a console
// output so the clear-screen sequence works. Writers that are not a console
// are left alone.
func enableVirtualTerminal(out any) error {
	f, ok := out.(fileDescriptor)
	if !ok {
		return nil
	}
	handle := windows.Handle(f.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		// redirected to a file or pipe
		return nil
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return nil
	}
	return windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}

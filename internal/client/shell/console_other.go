//go:build !windows

package shell

// enableVirtualTerminal is a no-op: terminals outside Windows interpret
// ANSI escapes natively.
func enableVirtualTerminal(any) error {
	return nil
}

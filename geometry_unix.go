//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// queryGeometry asks the terminal on stdout for its size via TIOCGWINSZ.
// It reports false when stdout is not a terminal.
func queryGeometry() (Geometry, bool) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		log.Debugf("terminal size unavailable: %v", err)
		return Geometry{}, false
	}
	if ws.Col == 0 {
		return Geometry{}, false
	}
	return Geometry{
		Cols:        int(ws.Col),
		Rows:        int(ws.Row),
		PixelWidth:  int(ws.Xpixel),
		PixelHeight: int(ws.Ypixel),
	}, true
}

// Package termesc abstracts terminal ANSI escape codes.
package termesc

import (
	"bytes"
	"fmt"
	"io"
)

const csi = "\x1B["

const (
	ClearScreen        = csi + "2J" // Clears the entire visible area of the console
	ClearScreenForward = csi + "J"  // Clears the console from the cursor onwards
	ClearLine          = csi + "2K" // Clears the line the cursor is on
)

// SetCursorPos returns a code that sets the cursor's position to (y, x).
// Coordinates are 1-based.
func SetCursorPos(y, x int) string { return fmt.Sprintf(csi+"%d;%dH", y, x) }

// Redraw writes frame over the previous contents of the screen: each line is cleared just
// before it is written, and whatever remains below the frame is cleared afterwards.
func Redraw(w io.Writer, frame []byte) error {
	var buf bytes.Buffer
	buf.WriteString(SetCursorPos(1, 1))
	for len(frame) > 0 {
		line := frame
		if i := bytes.IndexByte(frame, '\n'); i >= 0 {
			line = frame[:i+1]
		}
		buf.WriteString(ClearLine)
		buf.Write(line)
		frame = frame[len(line):]
	}
	buf.WriteString(ClearScreenForward)
	_, err := w.Write(buf.Bytes())
	return err
}

package plang

import (
	"bytes"
	"io"
)

// Result is what a Run or Eval call produces: the script's final
// expression value, converted to a Go-native shape, and everything it
// printed during this run.
type Result struct {
	Value  any
	Output string
}

// captureWriter tees writes to the engine's configured sink (stdout, or
// whatever WithOutput named) while also buffering them so each Run call
// can report its own Output independently of what else the sink holds.
type captureWriter struct {
	w        io.Writer
	captured bytes.Buffer
}

func (c *captureWriter) Write(p []byte) (int, error) {
	c.captured.Write(p)
	return c.w.Write(p)
}

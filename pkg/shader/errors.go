package shader

import (
	"errors"
	"fmt"
	"strings"
)

// CompileError reports a stage that failed to compile. Log is the driver's
// info log.
type CompileError struct {
	Stage Kind
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s shader: %s", e.Stage, cleanLog(e.Log))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link program: %s", cleanLog(e.Log))
}

// InfoLog returns the driver info log carried by a CompileError or
// LinkError anywhere in err's chain, or "".
func InfoLog(err error) string {
	var ce *CompileError
	if errors.As(err, &ce) {
		return cleanLog(ce.Log)
	}
	var le *LinkError
	if errors.As(err, &le) {
		return cleanLog(le.Log)
	}
	return ""
}

// GL info logs arrive NUL terminated and usually end in a newline.
func cleanLog(s string) string {
	return strings.TrimRight(s, "\x00\n\r ")
}

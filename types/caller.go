package types

import (
	"fmt"
	"runtime"
)

// CallerLocation is the source location of a call that spawned, despawned or changed something.
type CallerLocation struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

func (c CallerLocation) String() string {
	return fmt.Sprintf("%s:%d", c.File, c.Line)
}

// Caller captures the location of the caller skip frames above the function calling Caller. It returns
// nil unless the module is built with location tracking.
func Caller(skip int) *CallerLocation {
	if !TrackLocation {
		return nil
	}
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return &CallerLocation{File: "unknown"}
	}
	return &CallerLocation{File: file, Line: line}
}

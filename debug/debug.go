package debug

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Stack returns a formatted stack trace of the caller, trimmed to the
// circuit code (see WriteStack).
func Stack() string {
	var sbb strings.Builder
	WriteStack(&sbb)
	return sbb.String()
}

// WriteStack writes a formatted stack trace of the caller to sbb.
//
// Frames belonging to the assignment and constraint plumbing are skipped so
// that the trace starts in circuit code; capture stops at the user's
// Configure or Synthesize frame.
func WriteStack(sbb *strings.Builder, forceClean ...bool) {
	// derived from: https://golang.org/pkg/runtime/#example_Frames

	// Ask runtime.Callers for up to 10 pcs
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	if n == 0 {
		// No pcs available. Stop now.
		// This can happen if the first argument to runtime.Callers is large.
		return
	}
	pc = pc[:n] // pass only valid pcs to runtime.CallersFrames
	frames := runtime.CallersFrames(pc)
	// Loop to get frames.
	// A fixed number of pcs can expand to an indefinite number of Frames.
	for {
		frame, more := frames.Next()
		fe := strings.Split(frame.Function, "/")
		function := fe[len(fe)-1]
		file := frame.File

		if !Debug || (len(forceClean) > 1 && forceClean[0]) {
			if strings.Contains(function, "runtime.gopanic") {
				continue
			}
			if strings.Contains(function, "constraint.(*System)") {
				continue
			}
			if strings.Contains(frame.File, "plonkish/frontend") {
				continue
			}
			if strings.Contains(frame.File, "plonkish/mock") {
				continue
			}
			file = filepath.Base(file)
		}

		sbb.WriteString(function)
		sbb.WriteByte('\n')
		sbb.WriteByte('\t')
		sbb.WriteString(file)
		sbb.WriteByte(':')
		sbb.WriteString(strconv.Itoa(frame.Line))
		sbb.WriteByte('\n')
		if !more {
			break
		}
		if stopCollecting(function) {
			break
		}
	}
}

// stopCollecting reports whether function is an entry point of circuit code,
// past which stack frames carry no circuit-debugging value.
func stopCollecting(function string) bool {
	return strings.HasSuffix(function, ".Configure") ||
		strings.HasSuffix(function, ".Synthesize")
}

// Package monitoring holds the diagnostic logger shared by the pipeline and
// the command-line tools.
package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Stage times one pipeline stage. Call Done with the stage's input and
// output sizes to emit a single summary line.
type Stage struct {
	name  string
	start time.Time
}

// StartStage begins timing a stage.
func StartStage(name string) Stage {
	return Stage{name: name, start: time.Now()}
}

// Done logs "[name] in=<in> out=<out> took=<duration>".
func (s Stage) Done(in, out int) {
	Logf("[%s] in=%d out=%d took=%s", s.name, in, out, time.Since(s.start).Round(time.Microsecond))
}

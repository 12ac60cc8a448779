package contract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/huangsam/netseries/schema"
)

// LogObserver reports run diagnostics as warnings on stderr. Progress lines
// are written only when Verbose is set.
type LogObserver struct {
	Verbose bool
	Out     io.Writer // defaults to os.Stderr

	mu   sync.Mutex
	seen []schema.Diagnostic
}

// Diagnose logs the diagnostic through LogWarn and remembers it.
func (o *LogObserver) Diagnose(d schema.Diagnostic) {
	o.mu.Lock()
	o.seen = append(o.seen, d)
	o.mu.Unlock()
	LogWarn(string(d.Kind), errors.New(d.Message))
}

// Progress writes "stage done/total" when verbose.
func (o *LogObserver) Progress(stage schema.Stage, done, total int) {
	if !o.Verbose {
		return
	}
	out := o.Out
	if out == nil {
		out = os.Stderr
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintf(out, "\r%-8s %d/%d", stage, done, total)
	if done == total {
		_, _ = fmt.Fprintln(out)
	}
}

// Diagnostics returns every diagnostic seen so far.
func (o *LogObserver) Diagnostics() []schema.Diagnostic {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]schema.Diagnostic(nil), o.seen...)
}

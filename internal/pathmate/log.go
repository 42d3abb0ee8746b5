package pathmate

import (
	"fmt"
	"io"
	"sync"
)

// logger writes diagnostics about skipped entries.
// Predicates may run on several goroutines (see dirstat), hence the mutex.
type logger struct {
	mu  sync.Mutex
	out io.Writer
}

//nolint:gochecknoglobals // Process-wide diagnostic sink, off by default
var diagnostics = &logger{}

// SetDiagnostics directs diagnostic output to w. A nil writer disables it.
func SetDiagnostics(w io.Writer) {
	diagnostics.mu.Lock()
	defer diagnostics.mu.Unlock()

	diagnostics.out = w
}

// printf prints debug output if a writer is configured.
func (l *logger) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return
	}

	fmt.Fprintf(l.out, "[debug]: "+format+"\n", args...)
}

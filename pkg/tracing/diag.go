package tracing

import (
	"log"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"go.opentelemetry.io/otel"
)

var diagOnce sync.Once

// setDiagVerbosity installs the OTel diagnostic logger at the given
// verbosity. The OTel global logger is process-wide, so this runs once;
// later calls are no-ops.
func setDiagVerbosity(v int) {
	diagOnce.Do(func() {
		stdr.SetVerbosity(v)
		otel.SetLogger(stdr.New(log.New(os.Stderr, "tracing: ", log.LstdFlags)))
	})
}

// SetDiagLogger replaces the OTel diagnostic logger with a caller-owned
// one, for hosts that already run a structured logger. Process-wide and
// last-wins, like the rest of the OTel globals.
func SetDiagLogger(logger logr.Logger) {
	otel.SetLogger(logger)
}

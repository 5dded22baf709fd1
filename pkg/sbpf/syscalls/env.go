package syscalls

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/andyjsbell/zksol/pkg/sbpf/compute"
	"github.com/andyjsbell/zksol/pkg/sbpf/memory"
)

// LogSink receives messages a program emits through sol_log_
type LogSink interface {
	Log(message string)
}

// LogRecorder is a LogSink that keeps every message in order and echoes it to
// the run's logger.
type LogRecorder struct {
	log      *logrus.Entry
	messages []string
}

func NewLogRecorder(log *logrus.Entry) *LogRecorder {
	return &LogRecorder{
		log: log,
	}
}

func (r *LogRecorder) Log(message string) {
	r.messages = append(r.messages, message)
	r.log.Infof("Program log: %s", message)
}

// Messages returns the recorded messages
func (r *LogRecorder) Messages() []string {
	return slices.Clone(r.messages)
}

// Env is the per-run state syscalls operate on. It is owned by a single run
// and must not be shared between goroutines.
type Env struct {
	Mapping *memory.Mapping
	Meter   *compute.Meter
	Logs    LogSink
	Log     *logrus.Entry

	// TraceInstructions enables the per-step register trace
	TraceInstructions bool
}

// Trace is called by the engine before each instruction with r0-r10 and the
// program counter.
func (e *Env) Trace(registers [12]uint64) {
	if !e.TraceInstructions {
		return
	}

	e.Log.WithFields(logrus.Fields{
		"pc":        registers[11],
		"registers": registers[:11],
		"remaining": e.Meter.Remaining(),
	}).Trace("instruction")
}

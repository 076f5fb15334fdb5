// Package output handles CLI output: leveled messages, key/value report lines,
// and a single-line progress indicator on terminals.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// clearWidth is the number of columns blanked when a progress line is erased.
const clearWidth = 72

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Warning and error destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
}

// Output writes leveled messages and progress. It is safe for concurrent use;
// watch mode reports from debounce timers.
type Output struct {
	config Config

	mu              sync.Mutex
	progressActive  bool
	progressTotal   int
	progressCurrent int
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// ConfigFor returns a Config writing to w and errW. Progress is only drawn
// when w is a terminal.
func ConfigFor(w, errW io.Writer) Config {
	return Config{
		Writer:    w,
		ErrWriter: errW,
		IsTTY:     isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Discard returns an Output that drops everything. Useful in tests and
// library callers that do not want console noise.
func Discard() *Output {
	return New(Config{Writer: io.Discard, ErrWriter: io.Discard})
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.emit(o.config.Writer, "", format, args...)
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.emit(o.config.Writer, "", format, args...)
}

// Warn prints a recoverable problem to the error stream.
func (o *Output) Warn(format string, args ...interface{}) {
	o.emit(o.config.ErrWriter, "Warning: ", format, args...)
}

// Error prints an error message to the error stream.
func (o *Output) Error(format string, args ...interface{}) {
	o.emit(o.config.ErrWriter, "", format, args...)
}

// Field prints an indented "label: value" report line.
func (o *Output) Field(label string, value interface{}) {
	o.emit(o.config.Writer, "", "  %-12s %v", label+":", value)
}

func (o *Output) emit(w io.Writer, prefix, format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.clearProgressLineLocked()
	msg := prefix + fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

// clearProgressLineLocked erases the progress line. Caller holds mu.
func (o *Output) clearProgressLineLocked() {
	if o.progressActive && o.config.IsTTY {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", clearWidth)+"\r")
	}
}

// progressEnabled reports whether progress lines are drawn at all.
// Verbose mode prints a line per step instead.
func (o *Output) progressEnabled() bool {
	return o.config.IsTTY && !o.config.Verbose
}

// StartProgress begins a progress indicator session.
func (o *Output) StartProgress(total int) {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progressActive = true
	o.progressTotal = total
	o.progressCurrent = 0
}

// UpdateProgress redraws the indicator in place.
func (o *Output) UpdateProgress(current int, message string) {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressCurrent = current
	if message == "" {
		message = "Reformatting file"
	}
	fmt.Fprintf(o.config.Writer, "\r%s %d/%d...", message, current, o.progressTotal)
}

// EndProgress clears the progress indicator.
func (o *Output) EndProgress() {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.progressActive {
		return
	}
	o.clearProgressLineLocked()
	o.progressActive = false
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY returns whether the output is a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}

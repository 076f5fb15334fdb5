package output

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newBuffered(verbose, tty bool) (*Output, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	out := New(Config{
		Verbose:   verbose,
		Writer:    &stdout,
		ErrWriter: &stderr,
		IsTTY:     tty,
	})
	return out, &stdout, &stderr
}

func TestConfigForWritesToGivenStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := ConfigFor(&stdout, &stderr)
	if cfg.IsTTY {
		t.Error("a buffer is not a terminal")
	}

	out := New(cfg)
	out.Info("done")
	out.Warn("careful")

	if stdout.String() != "done\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "done\n")
	}
	if stderr.String() != "Warning: careful\n" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "Warning: careful\n")
	}
}

func TestVerboseOutputOnlyAppearsWhenEnabled(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		expectEmpty bool
	}{
		{"verbose disabled - no output", false, true},
		{"verbose enabled - has output", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stdout, _ := newBuffered(tt.verbose, false)

			out.Verbose("source header %q", "Policy #")

			if tt.expectEmpty && stdout.Len() > 0 {
				t.Errorf("expected no output when verbose disabled, got: %q", stdout.String())
			}
			if !tt.expectEmpty && !strings.Contains(stdout.String(), `source header "Policy #"`) {
				t.Errorf("unexpected verbose output: %q", stdout.String())
			}
		})
	}
}

func TestLevelsRouteToStreams(t *testing.T) {
	tests := []struct {
		name       string
		emit       func(o *Output)
		wantStdout string
		wantStderr string
	}{
		{"info", func(o *Output) { o.Info("done") }, "done\n", ""},
		{"warn", func(o *Output) { o.Warn("oracle failed: %s", "timeout") }, "", "Warning: oracle failed: timeout\n"},
		{"error", func(o *Output) { o.Error("Error: %s", "boom") }, "", "Error: boom\n"},
		{"no double newline", func(o *Output) { o.Info("line\n") }, "line\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stdout, stderr := newBuffered(false, false)
			tt.emit(out)

			if stdout.String() != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if stderr.String() != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestField(t *testing.T) {
	out, stdout, _ := newBuffered(false, false)

	out.Field("Rows", 42)
	out.Field("Strategy", "exact")

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", stdout.String())
	}
	if !strings.HasPrefix(lines[0], "  Rows:") || !strings.HasSuffix(lines[0], " 42") {
		t.Errorf("unexpected field line %q", lines[0])
	}
	if strings.Index(lines[0], "42") != strings.Index(lines[1], "exact") {
		t.Errorf("values are not aligned: %q", stdout.String())
	}
}

func TestProgressFormat(t *testing.T) {
	out, stdout, _ := newBuffered(false, true)

	out.StartProgress(10)
	out.UpdateProgress(5, "")
	if !strings.Contains(stdout.String(), "\rReformatting file 5/10...") {
		t.Errorf("unexpected default progress: %q", stdout.String())
	}

	out.UpdateProgress(6, "Scanning")
	if !strings.Contains(stdout.String(), "\rScanning 6/10...") {
		t.Errorf("unexpected custom progress: %q", stdout.String())
	}
}

func TestMessagesClearActiveProgress(t *testing.T) {
	out, stdout, _ := newBuffered(false, true)

	out.StartProgress(3)
	out.UpdateProgress(1, "")
	out.Info("summary")

	s := stdout.String()
	clear := "\r" + strings.Repeat(" ", clearWidth) + "\r"
	if !strings.Contains(s, clear+"summary\n") {
		t.Errorf("progress line not cleared before message: %q", s)
	}
}

func TestEndProgressClearsLine(t *testing.T) {
	out, stdout, _ := newBuffered(false, true)

	out.StartProgress(10)
	out.UpdateProgress(5, "")
	out.EndProgress()

	if !strings.HasSuffix(stdout.String(), "\r") {
		t.Errorf("expected output to end with carriage return after EndProgress, got: %q", stdout.String())
	}

	before := stdout.Len()
	out.UpdateProgress(6, "")
	if stdout.Len() != before {
		t.Error("updates after EndProgress must not draw")
	}
}

func TestDiscard(t *testing.T) {
	out := Discard()
	out.Info("x")
	out.Warn("y")
	if out.IsVerbose() || out.IsTTY() {
		t.Error("Discard should be quiet and non-interactive")
	}
}

func TestConcurrentWritesAreWholeLines(t *testing.T) {
	out, stdout, _ := newBuffered(false, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out.Info("file %d reformatted", i)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	pattern := regexp.MustCompile(`^file \d+ reformatted$`)
	for _, line := range lines {
		if !pattern.MatchString(line) {
			t.Errorf("interleaved line %q", line)
		}
	}
}

// Feature: colorder, Property 1: Progress only draws on a quiet terminal
// Progress text appears if and only if the output is a TTY and verbose mode is off.
func TestProperty_ProgressVisibility(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("progress appears only on a TTY without verbose", prop.ForAll(
		func(tty, verbose bool, current, total int) bool {
			if current > total {
				current, total = total, current
			}
			out, stdout, stderr := newBuffered(verbose, tty)

			out.StartProgress(total)
			out.UpdateProgress(current, "")
			out.EndProgress()

			want := "Reformatting file " + strconv.Itoa(current) + "/" + strconv.Itoa(total) + "..."
			drawn := strings.Contains(stdout.String(), want)
			return drawn == (tty && !verbose) && stderr.Len() == 0
		},
		gen.Bool(),
		gen.Bool(),
		gen.IntRange(1, 1000),
		gen.IntRange(1, 1000),
	))

	properties.TestingRun(t)
}

// Feature: colorder, Property 2: Leveled messages ignore the terminal state
// Info and Error always appear; Verbose appears exactly when enabled.
func TestProperty_LeveledMessages(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("messages appear according to level only", prop.ForAll(
		func(tty, verbose bool, msg string) bool {
			out, stdout, stderr := newBuffered(verbose, tty)

			out.Info("info:%s", msg)
			out.Verbose("verbose:%s", msg)
			out.Error("error:%s", msg)

			return strings.Contains(stdout.String(), "info:"+msg) &&
				strings.Contains(stdout.String(), "verbose:"+msg) == verbose &&
				strings.Contains(stderr.String(), "error:"+msg)
		},
		gen.Bool(),
		gen.Bool(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

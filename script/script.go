// Package script hosts Starlark scripts that read a metadata snapshot.
//
// A script sees two predeclared names: database, the snapshot as frozen
// structs, and println, which writes its arguments as one line to the
// output sink. Starlark's own print goes to the same sink.
//
//	rt := script.New(script.WithTimeout(5 * time.Second))
//	err := rt.RunOutline(ctx, os.Stdout, db)
package script

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/lucasefe/dboutline/printer"
	"github.com/lucasefe/dboutline/schema"
)

const (
	DefaultMaxSteps = uint64(50_000_000)
	DefaultTimeout  = 30 * time.Second
	// MaxSourceBytes bounds the size of a script accepted by Run.
	MaxSourceBytes = 512 * 1024
)

// OutlineName is the file name the bundled outline script runs under.
const OutlineName = "plaintextschema.star"

// Outline is the bundled script printing the same outline as printer.Run.
//
//go:embed scripts/plaintextschema.star
var Outline string

// ErrTimeout is returned when a script is cancelled by its deadline.
var ErrTimeout = errors.New("script timed out")

// Runtime executes scripts with step and wall-clock limits. A Runtime holds
// no per-run state and may be shared.
type Runtime struct {
	maxSteps uint64
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithMaxSteps bounds the number of Starlark computation steps; 0 means
// unlimited.
func WithMaxSteps(n uint64) Option {
	return func(r *Runtime) {
		r.maxSteps = n
	}
}

// WithTimeout bounds the wall-clock time of one run; 0 means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a Runtime with default limits.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		maxSteps: DefaultMaxSteps,
		timeout:  DefaultTimeout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOutline runs the bundled outline script over db.
func (r *Runtime) RunOutline(ctx context.Context, w io.Writer, db *schema.Database) error {
	return r.Run(ctx, w, OutlineName, Outline, db)
}

// Run executes src over db, writing script output to w as it is produced.
// Script errors (including reading an attribute the snapshot lacks) are
// returned wrapped but otherwise unchanged; output written before the
// error stays written.
func (r *Runtime) Run(ctx context.Context, w io.Writer, filename, src string, db *schema.Database) error {
	if db == nil {
		return fmt.Errorf("database: %w", printer.ErrMissingAttribute)
	}
	if len(src) > MaxSourceBytes {
		return fmt.Errorf("script %s exceeds %d bytes", filename, MaxSourceBytes)
	}

	out := &lineWriter{w: w}
	thread := &starlark.Thread{
		Name: filename,
		Print: func(thread *starlark.Thread, msg string) {
			if err := out.writeLine(msg); err != nil {
				thread.Cancel(err.Error())
			}
		},
	}
	if r.maxSteps > 0 {
		thread.SetMaxExecutionSteps(r.maxSteps)
	}

	predeclared := starlark.StringDict{
		"database": databaseValue(db),
		"println":  starlark.NewBuiltin("println", out.println),
	}

	start := time.Now()
	err := r.runWithContext(ctx, thread, func() error {
		_, err := starlark.ExecFileOptions(&syntax.FileOptions{
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
		}, thread, filename, src, predeclared)
		return err
	})
	if out.err != nil {
		err = out.err
	}

	r.logger.Debug("script finished",
		"script", filename,
		"steps", thread.ExecutionSteps(),
		"lines", out.lines,
		"duration", time.Since(start),
		"error", err)

	if err != nil {
		return fmt.Errorf("run %s: %w", filename, err)
	}
	return nil
}

func (r *Runtime) runWithContext(ctx context.Context, thread *starlark.Thread, fn func() error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		thread.Cancel(ctx.Err().Error())
		err := <-done
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %v", ErrTimeout, r.timeout, err)
		}
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
}

// lineWriter backs println and print. It keeps the first write error so the
// run reports it instead of the cancellation it triggers.
type lineWriter struct {
	w     io.Writer
	err   error
	lines int
}

func (lw *lineWriter) writeLine(msg string) error {
	if lw.err != nil {
		return lw.err
	}
	if _, err := io.WriteString(lw.w, msg+"\n"); err != nil {
		lw.err = fmt.Errorf("write output: %w", err)
		return lw.err
	}
	lw.lines++
	return nil
}

func (lw *lineWriter) println(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}

	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if s, ok := starlark.AsString(arg); ok {
			parts = append(parts, s)
			continue
		}
		parts = append(parts, arg.String())
	}

	if err := lw.writeLine(strings.Join(parts, " ")); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

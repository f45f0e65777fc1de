// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/archiverc/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 35 // width for the archived name
	kindWidth  = 20 // width for the result kind
	sizeWidth  = 10 // width for the byte count
)

// 📦 RunInfo describes an archive run for the header
type RunInfo struct {
	Sources     []string // source folders
	Destination string   // archive root
	Config      string   // config selector or file
	DryRun      bool     // whether nothing is written
}

// 🎯 Logger prints archive results to the console and mirrors them to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.Formatter
	mu        sync.Mutex
	run       *RunInfo
	results   int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

type style struct {
	symbol rune
	color  color.Attribute
}

var styles = map[status.Kind]style{
	status.KindCopied:              {'✓', color.FgGreen},
	status.KindMoved:               {'✓', color.FgGreen},
	status.KindCopiedWithOverwrite: {'⟳', color.FgBlue},
	status.KindMovedWithOverwrite:  {'⟳', color.FgBlue},
	status.KindSourceDeleted:       {'✗', color.FgYellow},
	status.KindDestinationDeleted:  {'✗', color.FgRed},
	status.KindAlreadyExists:       {'•', color.FgCyan},
	status.KindInvalid:             {'-', color.FgYellow},
	status.KindError:               {'!', color.FgRed},
}

// name shows the archived path relative to the run destination when there is one
func (l *Logger) name(r *status.Result) string {
	if r.Path() == "" {
		return r.Source()
	}
	if l.run != nil && l.run.Destination != "" {
		if rel, err := filepath.Rel(l.run.Destination, r.Path()); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return r.Path()
}

// 📝 formatResult formats a result for display
func (l *Logger) formatResult(r *status.Result) string {
	st, ok := styles[r.Kind()]
	if !ok {
		st = style{'?', color.FgMagenta}
	}

	size := ""
	if r.Size() > 0 {
		size = status.HumanBytes(r.Size())
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(st.color).Sprint(string(st.symbol)),
		fmt.Sprintf("%-*s", nameWidth, l.name(r)),
		color.New(st.color).Sprint(fmt.Sprintf("%-*s", kindWidth, r.Kind().String())),
		fmt.Sprintf("%-*s", sizeWidth, size))

	switch {
	case r.Err() != nil:
		line += " " + color.New(color.FgRed).Sprint(r.Err().Error())
	case r.Message() != "":
		line += " " + color.New(color.Faint).Sprint(r.Message())
	}
	return line
}

// 📝 LogResult prints one result
func (l *Logger) LogResult(ctx context.Context, r *status.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results++
	fmt.Fprintln(l.console, l.formatResult(r))

	ev := l.zlog.Info()
	if r.Err() != nil {
		ev = l.zlog.Error().Err(r.Err())
	}
	ev.Str("kind", r.Kind().String()).
		Str("src", r.Source()).
		Str("dst", r.Path()).
		Int64("size", r.Size()).
		Str("message", r.Message()).
		Msg(l.formatter.FormatResult(r))
}

// 📝 StartRun prints the run header
func (l *Logger) StartRun(ctx context.Context, info RunInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.run = &info
	l.results = 0

	fmt.Fprintf(l.console, "[archiving into %s]\n",
		color.New(color.FgCyan).Sprint(info.Destination))

	for _, src := range info.Sources {
		fmt.Fprintf(l.console, "%s %s %s %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(src),
			color.New(color.Faint).Sprint("•"),
			color.New(color.FgYellow).Sprint(info.Config))
	}
	if info.DryRun {
		fmt.Fprintf(l.console, "%s\n", color.New(color.FgYellow).Sprint("dry run, nothing will be changed"))
	}

	l.zlog.Info().
		Strs("sources", info.Sources).
		Str("destination", info.Destination).
		Str("config", info.Config).
		Bool("dry_run", info.DryRun).
		Msg("starting archive run")
}

// 📝 EndRun prints the summary of the current run
func (l *Logger) EndRun(ctx context.Context, stats *status.Stats) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.run == nil {
		return
	}

	fmt.Fprintln(l.console)
	fmt.Fprint(l.console, l.formatter.FormatSummary(stats))

	l.zlog.Info().
		Str("destination", l.run.Destination).
		Int("results", l.results).
		Int("processed", stats.Processed).
		Int64("transferred", stats.BytesTransferred).
		Int64("reclaimed", stats.BytesReclaimed).
		Msg("archive run complete")

	l.run = nil
	l.results = 0
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("archiverc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...any) {
	l.Success(fmt.Sprintf(format, args...))
}

package generate

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Status prints user-facing progress lines. These are not log records: they
// always go to the status writer, whatever the log level.
type Status struct {
	w     io.Writer
	ok    *color.Color
	faint *color.Color
}

// NewStatus creates a Status writing to w. Colors are used only when enabled
// is true and fatih/color has not disabled them for the terminal.
func NewStatus(w io.Writer, enabled bool) *Status {
	s := &Status{
		w:     w,
		ok:    color.New(color.FgGreen, color.Bold),
		faint: color.New(color.Faint),
	}
	if !enabled {
		s.ok.DisableColor()
		s.faint.DisableColor()
	}
	return s
}

// Generated reports a written manifest.
func (s *Status) Generated(name, manifestPath string) {
	if s == nil || s.w == nil {
		return
	}
	fmt.Fprintf(s.w, "%s Nix Flake for %s at %s\n", s.ok.Sprint("Generated"), name, manifestPath)
}

// SourceDir reports the prepared source directory.
func (s *Status) SourceDir(dir string, files int) {
	if s == nil || s.w == nil {
		return
	}
	if files == 0 {
		fmt.Fprintln(s.w, s.faint.Sprintf("Empty source directory created at %s", dir))
		return
	}
	fmt.Fprintln(s.w, s.faint.Sprintf("Staged %d file(s) in %s", files, dir))
}

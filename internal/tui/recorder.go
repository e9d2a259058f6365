package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Recorder writes every frame and the message that produced it to a
// temporary directory.
type Recorder struct {
	logFile  *os.File
	frameDir string
	frameNum int
	enabled  bool
}

// NewRecorder creates a recorder. It is disabled when enabled is false or the
// directory cannot be created.
func NewRecorder(enabled bool) *Recorder {
	if !enabled {
		return &Recorder{}
	}

	dir := filepath.Join(os.TempDir(), fmt.Sprintf("bankdash-tui-%d", time.Now().Unix()))
	if err := os.MkdirAll(dir, 0750); err != nil {
		return &Recorder{}
	}

	logFile, err := os.Create(filepath.Join(dir, "tui.log")) // #nosec G304 -- path built from temp dir
	if err != nil {
		return &Recorder{}
	}

	r := &Recorder{
		enabled:  true,
		logFile:  logFile,
		frameDir: dir,
	}
	r.Log("recording to %s", dir)
	return r
}

// Dir returns the recording directory, or "" when disabled.
func (r *Recorder) Dir() string {
	return r.frameDir
}

// RecordState captures the model after msg was handled.
func (r *Recorder) RecordState(m Model, msg tea.Msg) {
	if !r.enabled {
		return
	}
	r.frameNum++

	r.Log("\n=== Frame %d ===", r.frameNum)
	r.Log("Time: %s", time.Now().Format("15:04:05.000"))
	r.Log("Message: %T", msg)
	r.Log("Page: %s State: %d Loading: %v", m.page, m.state, m.loading)
	if m.banner.Visible() {
		a := m.banner.Alert()
		r.Log("Banner: %s %q %q", a.Kind, a.Header, a.Body)
	}

	view := m.View()
	framePath := filepath.Join(r.frameDir, fmt.Sprintf("frame-%04d.txt", r.frameNum))
	if err := os.WriteFile(framePath, []byte(view), 0600); err != nil {
		r.Log("Error saving frame: %v", err)
	}
}

// Log writes a line to the log file.
func (r *Recorder) Log(format string, args ...any) {
	if !r.enabled || r.logFile == nil {
		return
	}
	if _, err := fmt.Fprintf(r.logFile, format+"\n", args...); err != nil {
		return
	}
	_ = r.logFile.Sync()
}

// Close closes the log file.
func (r *Recorder) Close() {
	if r.logFile != nil {
		r.Log("%d frames captured", r.frameNum)
		_ = r.logFile.Close()
	}
}

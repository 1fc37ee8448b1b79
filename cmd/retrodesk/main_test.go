package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/shell"
	"github.com/1broseidon/retrodesk/internal/termbuf"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunConfigValidate(t *testing.T) {
	good := writeFile(t, "metrics:\n  max_rate: 120\n")
	if rc := runConfig([]string{"validate", "--path", good}); rc != 0 {
		t.Fatalf("validate good rc=%d, want 0", rc)
	}

	bad := writeFile(t, "terminal:\n  clamp: sideways\n")
	if rc := runConfig([]string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate bad rc=%d, want 1", rc)
	}
}

func TestRunConfigUsageErrors(t *testing.T) {
	if rc := runConfig(nil); rc != 2 {
		t.Fatalf("no subcommand rc=%d, want 2", rc)
	}
	if rc := runConfig([]string{"frobnicate"}); rc != 2 {
		t.Fatalf("unknown subcommand rc=%d, want 2", rc)
	}
	if rc := runConfig([]string{"explain"}); rc != 2 {
		t.Fatalf("explain without path rc=%d, want 2", rc)
	}
}

func TestRunConfigInitRefusesExisting(t *testing.T) {
	path := writeFile(t, "")
	if rc := runConfigInit([]string{"--path", path}); rc != 1 {
		t.Fatalf("init over existing rc=%d, want 1", rc)
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		Session: "abc",
		Clock:   "10:11:12",
		Windows: []ipc.WindowStatus{
			{ID: 1, Title: "Terminal", Kind: "terminal", X: 12, Y: 3, Width: 64, Height: 16, Focused: true},
		},
	})
	out := buf.String()
	for _, want := range []string{"session:        abc", "fps:            ---", `* z=0 id=1 terminal "Terminal" at 12,3 64x16`} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestDesktopClearCommandClearsTerminal(t *testing.T) {
	d := newDesktop(config.DefaultConfig(), zap.NewNop())
	if d.exporter != nil {
		t.Fatal("exporter created without metrics.listen")
	}

	d.sched.Post(shell.OpenTerminal{})
	for _, r := range "echo hi" {
		d.sched.Post(shell.KeyInput{Key: shell.KeyRune, Rune: r})
	}
	d.sched.Post(shell.KeyInput{Key: shell.KeyEnter})
	d.sched.FastTick(time.Now())

	term, _, ok := d.sched.Terminal()
	if !ok {
		t.Fatal("terminal not open")
	}
	if got := term.Lines(); len(got) == 0 || got[len(got)-1] != "hi" {
		t.Fatalf("lines=%q, want last line hi", got)
	}

	for _, r := range "clear" {
		d.sched.Post(shell.KeyInput{Key: shell.KeyRune, Rune: r})
	}
	d.sched.Post(shell.KeyInput{Key: shell.KeyEnter})
	d.sched.FastTick(time.Now())

	if got := term.Lines(); len(got) != 0 {
		t.Fatalf("lines after clear=%q, want none", got)
	}
	if got := term.LiveLine(); got != termbuf.DefaultPrompt {
		t.Fatalf("live line=%q, want prompt", got)
	}
	if d.board.Load() == nil {
		t.Fatal("board not published")
	}
}

func TestHeadlessPrintsRates(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Metrics.MaxRate = 2000
	cfg.Metrics.ReportWindow = 20 * time.Millisecond
	cfg.Scheduler.FastInterval = 5 * time.Millisecond
	cfg.Scheduler.SlowInterval = 50 * time.Millisecond
	d := newDesktop(cfg, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	if err := headless(ctx, d, &buf); err != nil {
		t.Fatalf("headless: %v", err)
	}
	if !strings.Contains(buf.String(), "FPS: ") {
		t.Fatalf("no rate printed:\n%s", buf.String())
	}
}

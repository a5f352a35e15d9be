package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/tasklist/internal/model"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, name := range []string{
		"TASKLIST_CONFIG", "TASKLIST_BACKEND", "TASKLIST_PATH", "TASKLIST_SLOT_KEY",
		"TASKLIST_LOG_LEVEL", "TASKLIST_LOG_FILE", "TASKLIST_LOG_FORMAT", "TASKLIST_GLAMOUR",
	} {
		t.Setenv(name, "")
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// fileCLI returns a runner bound to one JSON file slot.
func fileCLI(t *testing.T) func(args ...string) string {
	t.Helper()
	path := filepath.Join(isolate(t), "todos.json")
	return func(args ...string) string {
		t.Helper()
		out, err := run(t, append([]string{"--backend", "file", "--path", path}, args...)...)
		if err != nil {
			t.Fatalf("tasklist %v: %v", args, err)
		}
		return out
	}
}

func listJSON(t *testing.T, mustRun func(args ...string) string, extra ...string) []listedItem {
	t.Helper()
	raw := mustRun(append([]string{"ls", "--json"}, extra...)...)
	var rows []listedItem
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		t.Fatalf("decode ls --json: %v\n%s", err, raw)
	}
	return rows
}

func titles(rows []listedItem) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title)
	}
	return out
}

func TestAddListAndToggle(t *testing.T) {
	mustRun := fileCLI(t)

	if out := mustRun("add", "Buy milk", "--note", "2% fat"); !strings.Contains(out, "added") {
		t.Fatalf("unexpected add output: %q", out)
	}
	mustRun("add", "Call Alice")

	rows := listJSON(t, mustRun)
	if got := strings.Join(titles(rows), ","); got != "Buy milk,Call Alice" {
		t.Fatalf("unexpected order: %s", got)
	}
	if rows[0].Note != "2% fat" || rows[0].Position != 1 || rows[1].Order != 1 {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if out := mustRun("done", "1"); !strings.Contains(out, "completed Buy milk") {
		t.Fatalf("unexpected done output: %q", out)
	}
	rows = listJSON(t, mustRun)
	if got := strings.Join(titles(rows), ","); got != "Call Alice,Buy milk" {
		t.Fatalf("completed item should sort last, got %s", got)
	}
	if !rows[1].Done || rows[0].Order != 0 || rows[1].Order != 0 {
		t.Fatalf("unexpected rows after toggle: %+v", rows)
	}

	active := listJSON(t, mustRun, "--filter", "active")
	if got := strings.Join(titles(active), ","); got != "Call Alice" {
		t.Fatalf("unexpected active view: %s", got)
	}
	found := listJSON(t, mustRun, "--search", "2%")
	if got := strings.Join(titles(found), ","); got != "Buy milk" {
		t.Fatalf("unexpected search result: %s", got)
	}
}

func TestPlainListing(t *testing.T) {
	mustRun := fileCLI(t)

	if out := mustRun("ls"); !strings.Contains(out, "No todos found") {
		t.Fatalf("expected empty state, got %q", out)
	}
	mustRun("add", "Write report", "--note", "due friday")
	out := mustRun("ls")
	for _, want := range []string{"1. [ ] Write report", "due friday", "Active: 1  Completed: 0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMoveRemoveEditAndClear(t *testing.T) {
	mustRun := fileCLI(t)
	for _, title := range []string{"A", "B", "C"} {
		mustRun("add", title)
	}

	mustRun("mv", "1", "3")
	rows := listJSON(t, mustRun)
	if got := strings.Join(titles(rows), ","); got != "B,C,A" {
		t.Fatalf("unexpected order after mv: %s", got)
	}
	for i, r := range rows {
		if r.Order != i {
			t.Fatalf("expected dense order, got %+v", rows)
		}
	}

	mustRun("edit", rows[0].ID[:8], "--title", "Bee", "--note", "buzz")
	mustRun("rm", rows[1].ID)
	rows = listJSON(t, mustRun)
	if got := strings.Join(titles(rows), ","); got != "Bee,A" || rows[0].Note != "buzz" {
		t.Fatalf("unexpected rows after edit/rm: %+v", rows)
	}

	mustRun("done", "2")
	if out := mustRun("clear"); !strings.Contains(out, "cleared 1 completed") {
		t.Fatalf("unexpected clear output: %q", out)
	}
	rows = listJSON(t, mustRun)
	if got := strings.Join(titles(rows), ","); got != "Bee" {
		t.Fatalf("unexpected rows after clear: %s", got)
	}
}

func TestRefPositionsFollowViewFlags(t *testing.T) {
	mustRun := fileCLI(t)
	for _, title := range []string{"A", "B", "C"} {
		mustRun("add", title)
	}
	mustRun("done", "2")

	if out := mustRun("rm", "1", "--filter", "completed"); !strings.Contains(out, "deleted B") {
		t.Fatalf("expected position 1 of the completed view, got %q", out)
	}
	if out := mustRun("edit", "1", "--search", "c", "--title", "Cee"); !strings.Contains(out, "updated Cee") {
		t.Fatalf("unexpected edit output: %q", out)
	}
	if out := mustRun("done", "2", "--filter", "active"); !strings.Contains(out, "completed Cee") {
		t.Fatalf("expected position 2 of the active view, got %q", out)
	}

	rows := listJSON(t, mustRun)
	if got := strings.Join(titles(rows), ","); got != "A,Cee" || rows[0].Done || !rows[1].Done {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestEditWithoutTitleKeepsTitle(t *testing.T) {
	mustRun := fileCLI(t)
	mustRun("add", "Keep me", "--note", "old")
	mustRun("edit", "1", "--note", "")

	rows := listJSON(t, mustRun)
	if rows[0].Title != "Keep me" || rows[0].Note != "" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestThemeAndExport(t *testing.T) {
	mustRun := fileCLI(t)

	if out := mustRun("theme"); !strings.Contains(out, "theme: dark") {
		t.Fatalf("expected toggle to dark, got %q", out)
	}
	if out := mustRun("export"); !strings.Contains(out, `"theme":"dark"`) {
		t.Fatalf("expected persisted theme in export, got %q", out)
	}
	if out := mustRun("theme", "light"); !strings.Contains(out, "theme: light") {
		t.Fatalf("unexpected theme output: %q", out)
	}
}

func TestCommandErrors(t *testing.T) {
	path := filepath.Join(isolate(t), "todos.json")
	base := []string{"--backend", "file", "--path", path}

	if _, err := run(t, append(base, "add", "Only")...); err != nil {
		t.Fatalf("add: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "blank title", args: []string{"add", "   "}, want: model.ErrEmptyTitle},
		{name: "unknown ref", args: []string{"done", "9"}, want: model.ErrNotFound},
		{name: "bad filter", args: []string{"ls", "--filter", "someday"}, want: model.ErrInvalidFilter},
		{name: "bad theme", args: []string{"theme", "sepia"}, want: model.ErrInvalidTheme},
		{name: "bad position", args: []string{"mv", "0", "1"}, want: model.ErrIndexOutOfRange},
		{name: "position past end", args: []string{"mv", "1", "5"}, want: model.ErrIndexOutOfRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, append(base, tc.args...)...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestInvalidBackend(t *testing.T) {
	isolate(t)
	_, err := run(t, "--backend", "floppy", "ls")
	if err == nil || !strings.Contains(err.Error(), "backend") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestSQLiteBackendPersists(t *testing.T) {
	path := filepath.Join(isolate(t), "db", "todos.db")
	base := []string{"--backend", "sqlite", "--path", path}

	if _, err := run(t, append(base, "add", "Stored in sqlite")...); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := run(t, append(base, "ls", "--json")...)
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out, "Stored in sqlite") {
		t.Fatalf("expected item to survive a reopen, got %s", out)
	}
}

func TestMemoryBackendStartsEmpty(t *testing.T) {
	isolate(t)
	if _, err := run(t, "--backend", "memory", "add", "gone"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := run(t, "--backend", "memory", "ls")
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out, "No todos found") {
		t.Fatalf("memory backend should not persist across runs, got %q", out)
	}
}

func TestRootCommandStartsUI(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "todos.json")

	var started bool
	app := &App{runTUI: func(app *App) error {
		started = true
		if app.store == nil {
			t.Fatalf("expected store to be opened before the UI starts")
		}
		if !app.cfg.Glamour {
			t.Fatalf("expected glamour enabled by default")
		}
		return nil
	}}
	cmd := newRootCmd(app)
	cmd.SetArgs([]string{"--path", path})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !started {
		t.Fatalf("expected UI to start")
	}
	if len(app.closers) != 0 {
		t.Fatalf("expected resources to be released")
	}
}

func TestConfigFileSelectsBackend(t *testing.T) {
	dir := isolate(t)
	dbPath := filepath.Join(dir, "from-config.db")
	cfgPath := filepath.Join(dir, "tasklist.toml")
	writeConfig(t, cfgPath, "backend = \"sqlite\"\npath = \""+filepath.ToSlash(dbPath)+"\"\n")

	if _, err := run(t, "--config", cfgPath, "add", "configured"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := run(t, "--backend", "sqlite", "--path", dbPath, "ls")
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out, "configured") {
		t.Fatalf("expected config to route writes to sqlite, got %q", out)
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskmaster/internal/cli"
	"taskmaster/internal/commands"
	"taskmaster/internal/config"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/service"
	"taskmaster/internal/testutil"
)

// testFactory creates a store factory that counts how often it is called.
func testFactory(calls *int) cli.StoreFactory {
	return func(cfg *config.Config) (service.Service, error) {
		*calls++
		return testutil.NewStore(), nil
	}
}

func newDispatcher(t *testing.T) (*cli.Dispatcher, *int) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	calls := 0
	return cli.NewDispatcher(commands.DefaultRegistry, testFactory(&calls)), &calls
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher, calls := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
	if *calls != 0 {
		t.Errorf("help should not create a store, factory called %d times", *calls)
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "taskmaster 0.1.0\n" {
		t.Errorf("expected 'taskmaster 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"add", "--due"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -due\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	dispatcher, calls := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "no tasks found\n" {
		t.Errorf("expected empty list, got %q", stdout.String())
	}
	if *calls != 1 {
		t.Errorf("expected factory called once, got %d", *calls)
	}
}

func TestDispatcher_ConfigError(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	dir := t.TempDir()
	// A directory where the dotenv file should be cannot be read.
	if err := os.Mkdir(filepath.Join(dir, config.EnvFile), 0755); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", dir}, &stdout, &stderr)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr.String(), "error: config:") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_StoreError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, func(cfg *config.Config) (service.Service, error) {
		return nil, errors.New("boom")
	})

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list"}, &stdout, &stderr)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stderr.String() != "error: store: boom\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_StoreSharedAcrossRuns(t *testing.T) {
	dispatcher, calls := newDispatcher(t)
	ctx := context.Background()

	var stdout, stderr bytes.Buffer
	dispatcher.Run(ctx, []string{"add", "--quiet", "--due", "2999-01-01", "Buy milk"}, &stdout, &stderr)
	dispatcher.Run(ctx, []string{"list"}, &stdout, &stderr)

	if stderr.String() != "" {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
	if stdout.String() != "   1  [ ] Buy milk  (due 2999-01-01)\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
	if *calls != 1 {
		t.Errorf("expected factory called once, got %d", *calls)
	}
}

func TestRunShell(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	script := `
# comments and blank lines are skipped

add --due 2999-01-01 --desc "two litres" "Buy milk"
add --due 2999-02-01 'Write report'
toggle 2
filter pending
list
exit
list
`
	var stdout, stderr bytes.Buffer
	code := dispatcher.RunShell(context.Background(), strings.NewReader(script), &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
	expected := "ok\nok\nok (completed)\nok\n   1  [ ] Buy milk  (due 2999-01-01)\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
}

func TestRunShell_FlagsResetBetweenLines(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	script := "add --due 2999-01-01 --desc first one\nadd --due 2999-01-02 two\nshow 2\n"
	var stdout, stderr bytes.Buffer
	dispatcher.RunShell(context.Background(), strings.NewReader(script), &stdout, &stderr)

	if strings.Contains(stdout.String(), "description:") {
		t.Errorf("description leaked into second task: %q", stdout.String())
	}
}

func TestRunShell_Errors(t *testing.T) {
	dispatcher, _ := newDispatcher(t)
	dispatcher.Prompt = "> "

	script := "bogus\nadd \"unterminated\n"
	var stdout, stderr bytes.Buffer
	code := dispatcher.RunShell(context.Background(), strings.NewReader(script), &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	if len(lines) != 2 || lines[0] != "error: unknown command: bogus" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
	if stdout.String() != "> > > " {
		t.Errorf("expected three prompts, got %q", stdout.String())
	}
}

func TestRunShell_CancelledContext(t *testing.T) {
	dispatcher, calls := newDispatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	dispatcher.RunShell(ctx, strings.NewReader("list\n"), &stdout, &stderr)

	if *calls != 0 || stdout.Len() != 0 {
		t.Errorf("cancelled shell should not run commands, got %q", stdout.String())
	}
}

func TestRunShell_CancelWhileWaitingForInput(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	var stdout, stderr bytes.Buffer
	go func() {
		done <- dispatcher.RunShell(ctx, pr, &stdout, &stderr)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		if code != exitcode.Success {
			t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("shell still waiting for input after context cancel")
	}
}

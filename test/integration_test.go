// ABOUTME: Integration tests for mobi CLI commands.
// ABOUTME: Tests open, paste, drop and show against temp directories.

package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var mobiBin string

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestMain(m *testing.M) {
	// Build mobi binary
	cmd := exec.Command("go", "build", "-o", "bin/mobi", "./cmd/mobi")
	cmd.Dir = ".."
	if err := cmd.Run(); err != nil {
		panic(err)
	}

	wd, _ := os.Getwd()
	mobiBin = filepath.Join(wd, "..", "bin", "mobi")

	os.Exit(m.Run())
}

type env struct {
	home    string
	session string
}

func newEnv(t *testing.T) env {
	home := t.TempDir()
	return env{home: home, session: filepath.Join(home, "session")}
}

func (e env) run(stdin []byte, args ...string) (string, string, error) {
	allArgs := append([]string{"--session", e.session}, args...)
	cmd := exec.Command(mobiBin, allArgs...) //nolint:gosec // Running our own test binary is expected in integration tests
	cmd.Env = append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(e.home, "config"),
		"XDG_DATA_HOME="+filepath.Join(e.home, "data"),
	)
	if stdin != nil {
		cmd.Stdin = strings.NewReader(string(stdin))
	}
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestOpenPasteShow(t *testing.T) {
	e := newEnv(t)
	docs := t.TempDir()
	doc := filepath.Join(docs, "readme.md")
	if err := os.WriteFile(doc, []byte("# Readme\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Open the document
	if _, stderr, err := e.run(nil, "open", doc); err != nil {
		t.Fatalf("open failed: %v\n%s", err, stderr)
	}

	// Paste a PNG from stdin and append the reference
	stdout, stderr, err := e.run(pngBytes, "paste", "--append")
	if err != nil {
		t.Fatalf("paste failed: %v\n%s", err, stderr)
	}
	fragment := strings.TrimSpace(stdout)
	pattern := regexp.MustCompile(`^!\[\]\(assets/readme/(image_\d+_[0-9a-z]{6}\.png)\)$`)
	match := pattern.FindStringSubmatch(fragment)
	if match == nil {
		t.Fatalf("unexpected fragment %q", fragment)
	}
	if _, err := os.Stat(filepath.Join(docs, "assets", "readme", match[1])); err != nil {
		t.Errorf("pasted file missing: %v", err)
	}

	content, _ := os.ReadFile(doc)
	if !strings.HasSuffix(string(content), fragment+"\n") {
		t.Errorf("fragment not appended: %q", content)
	}

	// Show lists the attachment as present
	stdout, _, err = e.run(nil, "show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(stdout, match[1]) || strings.Contains(stdout, "missing") {
		t.Errorf("expected attachment listed as present: %s", stdout)
	}
}

func TestDropIntoWorkspaceAvoidsCollision(t *testing.T) {
	e := newEnv(t)
	workspace := t.TempDir()
	src := t.TempDir()
	photo := filepath.Join(src, "photo.jpg")
	if err := os.WriteFile(photo, []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, stderr, err := e.run(nil, "workspace", workspace); err != nil {
		t.Fatalf("workspace failed: %v\n%s", err, stderr)
	}

	first, stderr, err := e.run(nil, "drop", filepath.Join(src, "notes.exe"), photo)
	if err != nil {
		t.Fatalf("drop failed: %v\n%s", err, stderr)
	}
	if strings.TrimSpace(first) != "![](assets/photo.jpg)" {
		t.Errorf("unexpected fragment %q", first)
	}

	second, _, err := e.run(nil, "drop", photo)
	if err != nil {
		t.Fatalf("second drop failed: %v", err)
	}
	if !regexp.MustCompile(`^!\[\]\(assets/photo_\d+\.jpg\)$`).MatchString(strings.TrimSpace(second)) {
		t.Errorf("expected renamed fragment, got %q", second)
	}
}

func TestSubfolderDisabledBrowserDrop(t *testing.T) {
	e := newEnv(t)
	workspace := t.TempDir()
	report := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(report, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, stderr, err := e.run(nil, "config", "set", "attachments.subfolder_enabled", "false"); err != nil {
		t.Fatalf("config set failed: %v\n%s", err, stderr)
	}

	stdout, stderr, err := e.run(nil, "--workspace", workspace, "drop", "--browser", "--mime", "application/pdf", report)
	if err != nil {
		t.Fatalf("drop failed: %v\n%s", err, stderr)
	}
	if strings.TrimSpace(stdout) != "[report](report.pdf)" {
		t.Errorf("unexpected fragment %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(workspace, "report.pdf")); err != nil {
		t.Errorf("dropped file missing: %v", err)
	}
}

func TestPasteWithoutLocationFails(t *testing.T) {
	e := newEnv(t)

	stdout, stderr, err := e.run(pngBytes, "paste")
	if err == nil {
		t.Fatal("expected paste without document or workspace to fail")
	}
	if stdout != "" {
		t.Errorf("expected no fragment, got %q", stdout)
	}
	if !strings.Contains(stderr, "Open a document") {
		t.Errorf("expected guidance in stderr: %s", stderr)
	}
}

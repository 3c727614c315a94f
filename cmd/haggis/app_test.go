package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/haggis/haggis"
)

const copyJSON = `{"count": 10, "exclude": false, "source": [], "destination": ""}`

var referenceArgs = []string{"-s", "index.js", "package.json", "test.js", "-d", "/home/acidburn", "--exclude", "-c"}

// isolate clears HAGGIS_* variables and moves into an empty directory so no
// stray .env is picked up
func isolate(t *testing.T) string {
	t.Helper()
	for _, name := range []string{envTemplate, envOutput, envInitial, envLenient, envColor, envLogFormat, "NO_COLOR", "FORCE_COLOR", "COLUMNS"} {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunReference(t *testing.T) {
	dir := isolate(t)
	tpl := writeFile(t, dir, "copy.json", copyJSON)

	args := append([]string{"--template", tpl, "--log-format", "tagged", "--"}, referenceArgs...)
	code, stdout, stderr := runCLI(args...)
	if code != exitSuccess {
		t.Fatalf("Expected exit 0, got %d (stderr %q)", code, stderr)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, stdout)
	}
	want := map[string]any{
		"count":       float64(10),
		"exclude":     true,
		"source":      []any{"index.js", "package.json", "test.js"},
		"destination": "/home/acidburn",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	// Field order follows the template
	if strings.Index(stdout, `"count"`) > strings.Index(stdout, `"destination"`) {
		t.Errorf("fields out of order:\n%s", stdout)
	}

	// -c is the eighth passthrough argument
	if !strings.Contains(stderr, "[WARN] arg 8: -c has no value") {
		t.Errorf("Expected missing value warning, got %q", stderr)
	}
}

func TestRunOutputs(t *testing.T) {
	dir := isolate(t)
	tpl := writeFile(t, dir, "copy.yaml", "count: 10\nexclude: false\nsource: []\ndestination: null\n")
	base := []string{"-t", tpl, "-q", "--color", "never"}
	passthrough := []string{"--", "-s", "a", "2", "--exclude"}

	t.Run("yaml", func(t *testing.T) {
		code, stdout, _ := runCLI(append(append(base, "-o", "yaml"), passthrough...)...)
		if code != exitSuccess {
			t.Fatalf("Expected exit 0, got %d", code)
		}
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(stdout), &node); err != nil {
			t.Fatalf("Output is not YAML: %v", err)
		}
		mapping := node.Content[0]
		var keys []string
		for i := 0; i < len(mapping.Content); i += 2 {
			keys = append(keys, mapping.Content[i].Value)
		}
		if diff := cmp.Diff([]string{"count", "exclude", "source", "destination"}, keys); diff != "" {
			t.Errorf("key order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("toml", func(t *testing.T) {
		code, stdout, _ := runCLI(append(append(base, "-o", "toml"), passthrough...)...)
		if code != exitSuccess {
			t.Fatalf("Expected exit 0, got %d", code)
		}
		for _, line := range []string{"count = 10", "exclude = true", `source = ["a", 2]`} {
			if !strings.Contains(stdout, line) {
				t.Errorf("Expected %q in output:\n%s", line, stdout)
			}
		}
		// TOML has no null
		if strings.Contains(stdout, "destination") {
			t.Errorf("null field should be omitted:\n%s", stdout)
		}
	})

	t.Run("text", func(t *testing.T) {
		code, stdout, _ := runCLI(append(append(base, "-o", "text"), passthrough...)...)
		if code != exitSuccess {
			t.Fatalf("Expected exit 0, got %d", code)
		}
		want := "count       = 10\n" +
			"exclude     = true\n" +
			"source      = [\"a\", 2]\n" +
			"destination = null\n"
		if stdout != want {
			t.Errorf("Expected:\n%s\ngot:\n%s", want, stdout)
		}
	})

	t.Run("text wraps long lists", func(t *testing.T) {
		t.Setenv("COLUMNS", "20")
		code, stdout, _ := runCLI(append(base, "-o", "text", "--", "-s", "index.js", "package.json")...)
		if code != exitSuccess {
			t.Fatalf("Expected exit 0, got %d", code)
		}
		want := "count       = 10\n" +
			"exclude     = false\n" +
			"source      = [\"index.js\",\n" +
			"               \"package.json\"]\n" +
			"destination = null\n"
		if stdout != want {
			t.Errorf("Expected:\n%s\ngot:\n%s", want, stdout)
		}
	})
}

func TestRunEnvironmentPrecedence(t *testing.T) {
	dir := isolate(t)
	tpl := writeFile(t, dir, "copy.json", copyJSON)
	other := writeFile(t, dir, "other.json", `{"name": ""}`)

	// .env supplies the template and output format
	writeFile(t, dir, ".env", "HAGGIS_TEMPLATE="+tpl+"\nHAGGIS_OUTPUT=text\nHAGGIS_LENIENT=true\n")

	code, stdout, _ := runCLI("-q", "--color", "never", "--", "--extra", "1")
	if code != exitSuccess {
		t.Fatalf("Expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "count") || !strings.Contains(stdout, "extra") {
		t.Errorf("Expected text output of the .env template with lenient extra field:\n%s", stdout)
	}

	// The environment beats .env
	t.Setenv(envOutput, "json")
	code, stdout, _ = runCLI("-q", "--", "-c", "3")
	if code != exitSuccess || !strings.HasPrefix(stdout, "{") {
		t.Errorf("Expected JSON output, got %d:\n%s", code, stdout)
	}

	// Flags beat both
	code, stdout, _ = runCLI("-q", "-t", other, "-o", "yaml", "--", "-n", "bob")
	if code != exitSuccess || strings.TrimSpace(stdout) != "name: bob" {
		t.Errorf("Expected flag settings to win, got %d:\n%s", code, stdout)
	}
}

func TestRunInitialAndDebug(t *testing.T) {
	dir := isolate(t)
	tpl := writeFile(t, dir, "copy.json", copyJSON)

	code, stdout, stderr := runCLI("-t", tpl, "-i", "source", "--debug", "--log-format", "plain", "--",
		"a.txt", "b.txt", "-d", "out")
	if code != exitSuccess {
		t.Fatalf("Expected exit 0, got %d (stderr %q)", code, stderr)
	}

	var got struct {
		Source      []string
		Destination string
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.txt", "b.txt"}, got.Source); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}
	if got.Destination != "out" {
		t.Errorf("Expected destination out, got %q", got.Destination)
	}

	if !strings.Contains(stderr, "initial [source] <- [a.txt b.txt]") {
		t.Errorf("Expected debug instruction log, got stdout %q stderr %q", stdout, stderr)
	}
}

func TestRunErrors(t *testing.T) {
	dir := isolate(t)
	good := writeFile(t, dir, "copy.json", copyJSON)
	nested := writeFile(t, dir, "nested.json", `{"server": {"port": 1}}`)
	broken := writeFile(t, dir, "broken.yaml", "a: [1")
	unknownExt := writeFile(t, dir, "copy.ini", "a=1")

	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"no template", []string{"--", "-a"}, exitMisuse, "no template given"},
		{"unknown flag", []string{"--bogus"}, exitMisuse, "unknown flag"},
		{"bad output", []string{"-t", good, "-o", "xml"}, exitMisuse, "unknown output format"},
		{"bad color", []string{"-t", good, "--color", "rainbow"}, exitMisuse, "unknown color mode"},
		{"missing env file", []string{"-t", good, "--env-file", "nope.env"}, exitMisuse, "read env file"},
		{"nested template", []string{"-t", nested}, exitTemplate, "nested objects"},
		{"broken template", []string{"-t", broken}, exitTemplate, "invalid yaml template"},
		{"unknown extension", []string{"-t", unknownExt}, exitTemplate, "cannot tell template format"},
		{"missing template", []string{"-t", filepath.Join(dir, "none.json")}, exitGeneral, "open template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.args...)
			if code != tt.code {
				t.Errorf("Expected exit %d, got %d (stderr %q)", tt.code, code, stderr)
			}
			if !strings.Contains(stderr, tt.msg) {
				t.Errorf("Expected %q in stderr, got %q", tt.msg, stderr)
			}
		})
	}

	t.Setenv(envLenient, "maybe")
	if code, _, _ := runCLI("-t", good); code != exitMisuse {
		t.Errorf("Expected exit %d for invalid %s, got %d", exitMisuse, envLenient, code)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, exitSuccess},
		{errors.New("boom"), exitGeneral},
		{usagef("bad"), exitMisuse},
		{haggis.NewError(haggis.ErrorTypeFormat, "x"), exitTemplate},
		{haggis.NewError(haggis.ErrorTypeUnsupportedType, "x"), exitTemplate},
		{haggis.NewError(haggis.ErrorTypeIO, "x"), exitGeneral},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.code {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.code)
		}
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/actiongen/internal/config"
	"github.com/toyz/actiongen/internal/version"
)

const manifestYAML = `modules:
  WebDriver:
    class: Acme\WebDriver
classes:
  - name: Acme\WebDriver
    methods:
      - name: amOnPage
        params:
          - name: page
            type: string
        return: void
      - name: seeElement
        params:
          - name: selector
            type: string
        return: void
`

func writeSuite(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultManifest), []byte(manifestYAML), 0o644))
	path := filepath.Join(dir, config.DefaultFile)
	cfg := "actor: Acceptance\nnamespace: Tests\\Support\nmodules:\n  enabled: [WebDriver]\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

var fingerprintLine = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestVersion(t *testing.T) {
	code, out, _ := run("version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "actiongen "+version.Version+"\n", out)
}

func TestBuild(t *testing.T) {
	path := writeSuite(t, "")
	output := filepath.Join(filepath.Dir(path), config.DefaultOutput, "AcceptanceActions.php")

	code, out, stderr := run("build", "-c", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, output+" generated with 2 methods")
	assert.Contains(t, out, "Build:\n  Loading suite configuration...")
	assert.Contains(t, out, "Build complete")
	assert.Contains(t, out, "Generation complete!")

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), `new \Codeception\Step\Condition('amOnPage', func_get_args())`)
	assert.Contains(t, string(content), `new \Codeception\Step\Assertion('seeElement', func_get_args())`)

	code, out, _ = run("build", "-c", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "is up to date")
	assert.NotContains(t, out, "Generation complete!")

	code, out, _ = run("build", "-q", "--force", "-c", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "generated with 2 methods")
}

func TestHash(t *testing.T) {
	path := writeSuite(t, "")

	code, out, stderr := run("hash", "-q", "-c", path)
	require.Equal(t, 0, code, stderr)
	hash := strings.TrimSpace(out)
	assert.Regexp(t, fingerprintLine, hash)

	code, _, _ = run("build", "-q", "-c", path)
	require.Equal(t, 0, code)
	content, err := os.ReadFile(filepath.Join(filepath.Dir(path), config.DefaultOutput, "AcceptanceActions.php"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "<?php  //[STAMP] "+hash+"\n"))

	// Decorators change the fingerprint
	decorated := writeSuite(t, "step_decorators: [ConditionalAssertion]\n")
	_, other, _ := run("hash", "-q", "-c", decorated)
	assert.NotEqual(t, hash, strings.TrimSpace(other))
}

func TestClean(t *testing.T) {
	path := writeSuite(t, "")
	outputDir := filepath.Join(filepath.Dir(path), config.DefaultOutput)

	code, _, _ := run("build", "-q", "-c", path)
	require.Equal(t, 0, code)

	handWritten := filepath.Join(outputDir, "Helper.php")
	require.NoError(t, os.WriteFile(handWritten, []byte("<?php\n"), 0o644))

	code, out, stderr := run("clean", "-c", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Cleaning "+outputDir+"\n  ✓ Removed AcceptanceActions.php\n")
	assert.Contains(t, out, "Removed 1 generated files")

	_, err := os.Stat(filepath.Join(outputDir, "AcceptanceActions.php"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(handWritten)
	assert.NoError(t, err)
}

func TestCleanExplicitDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "UnitActions.php"), []byte("<?php  //[STAMP] abc\n"), 0o644))

	code, out, stderr := run("clean", dir)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Removed 1 generated files")
}

func TestErrorsAreReported(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		want  []string
	}{
		{
			name:  "unknown decorator",
			extra: "step_decorators: [Nope]\n",
			want:  []string{"Type: Configuration Error", "step decorator 'Nope' is not registered", "Decorator: Nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSuite(t, tt.extra)

			code, _, stderr := run("build", "-c", path)
			assert.Equal(t, 1, code)
			for _, want := range tt.want {
				assert.Contains(t, stderr, want)
			}
		})
	}
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeSuite(t, "")

	code, _, stderr := run("build", "--log-level", "trace", "-c", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid setting 'log-level'")
	assert.Contains(t, stderr, "Setting: log-level")

	_, err := os.Stat(filepath.Join(filepath.Dir(path), config.DefaultOutput, "AcceptanceActions.php"))
	assert.True(t, os.IsNotExist(err))
}

func TestMissingConfiguration(t *testing.T) {
	code, _, stderr := run("build", "-c", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not found")
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := run("deploy")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archdraw/config"
	"archdraw/export"
)

const webJSON = `{
  "nodes": [
    {"id": 2, "kind": "EC2", "x": 20, "y": 20, "label": "web"},
    {"id": 3, "kind": "RDS", "x": 400, "y": 0, "label": "db"}
  ],
  "frames": [{"id": 1, "kind": "VPC", "x": 0, "y": 0, "width": 300, "height": 200, "label": "prod"}],
  "edges": [{"id": 4, "from": 2, "to": 3}]
}`

// run executes the CLI in a scratch directory and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		flag, output string
		want         export.Format
	}{
		{"", "", export.FormatJSON},
		{"", "out.drawio", export.FormatDrawio},
		{"", "out.unknown", export.FormatJSON},
		{"ascii", "out.json", export.FormatASCII},
	}
	for _, tt := range tests {
		got, err := exportFormat(tt.flag, tt.output)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q %q", tt.flag, tt.output)
	}

	_, err := exportFormat("plantuml", "")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestExportCommand(t *testing.T) {
	chdir(t, t.TempDir())
	in := writeFile(t, "web.json", webJSON)

	out, err := run(t, "export", in, "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, `n2["web"]`)
	assert.Contains(t, out, "n2 --> n3")

	dst := filepath.Join(t.TempDir(), "web.drawio")
	_, err = run(t, "export", in, "-o", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<mxfile"))

	// and back again
	out, err = run(t, "export", dst)
	require.NoError(t, err)
	assert.Contains(t, out, `"label": "web"`)
}

func TestExportMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := run(t, "export", "nope.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateCommand(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := run(t, "validate", writeFile(t, "ok.json", webJSON))
	require.NoError(t, err)
	assert.Contains(t, out, ": 2 nodes, 1 frames, 1 edges")

	bad := `{
	  "nodes": [{"id": 1, "kind": "EC2", "x": 0, "y": 0}, {"id": 1, "kind": "S3", "x": 0, "y": 0}],
	  "frames": [{"id": 2, "kind": "VPC", "x": 0, "y": 0, "width": 10, "height": 10}],
	  "edges": [{"id": 3, "from": 1, "to": 99}]
	}`
	out, err = run(t, "validate", writeFile(t, "bad.json", bad))
	require.Error(t, err)
	assert.Contains(t, out, "3 problem(s)")
	assert.Contains(t, out, "[unique-id]")
	assert.Contains(t, out, "[dangling-edge] edge 3 ends at missing element 99")
	assert.Contains(t, out, "[frame-min-size]")

	_, err = run(t, "validate", writeFile(t, "junk.json", "not a diagram"))
	assert.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	chdir(t, t.TempDir())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `MODELID-m1-MODELID{"nodes":[{"id":1,"kind":"S3","x":0,"y":0,"label":"bucket"}]}`)
	}))
	defer srv.Close()
	t.Setenv(config.EnvAIEndpoint, srv.URL)

	out, err := run(t, "generate", "static", "site")
	require.NoError(t, err)
	assert.Contains(t, out, `"label": "bucket"`)
}

func TestGenerateRequiresEndpoint(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(config.EnvAIEndpoint, "")

	_, err := run(t, "generate", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvAIEndpoint)
}

func TestLogLevelFlag(t *testing.T) {
	chdir(t, t.TempDir())
	in := writeFile(t, "web.json", webJSON)

	_, err := run(t, "export", in, "--log-level", "debug")
	require.NoError(t, err)
	_, err = run(t, "export", in, "--log-level", "loud")
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeYAML = `
root: root
nodes:
  - id: root
    kind: switcher
    options: [login, tabs]
  - id: login
    route: login
  - id: tabs
    kind: fork
    options: [s1, s2]
  - id: s1
    kind: stack
    members: [a]
  - id: a
    route: a
    children: [d]
    modals: [m]
  - id: d
    route: a/d/:id
  - id: m
    route: a/m
  - id: s2
    kind: stack
    members: [b]
  - id: b
    route: b
    children: [a]
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTree(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(treeYAML), 0o644))
	return path
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", writeTree(t))
	require.NoError(t, err)
	assert.Contains(t, out, `ok: 9 nodes, root "root"`)
	assert.Contains(t, out, "shared: a")

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[[node]]\nid = \"x\"\nkind = \"wheel\"\n"), 0o644))
	_, err = run(t, "validate", bad)
	assert.ErrorContains(t, err, "unknown node kind")
}

func TestTrace(t *testing.T) {
	out, err := run(t, "trace", writeTree(t), "a/d/1", "a/m", "nowhere")
	require.NoError(t, err)

	assert.Contains(t, out, "> a/d/1\n")
	assert.Contains(t, out, "  = root > tabs > s1 > a > d\n")
	assert.Contains(t, out, "  set_parameters(d)\n")
	assert.Contains(t, out, "  = root > tabs > s1 > a{m}\n")
	assert.Contains(t, out, "  unwind(d)\n")
	assert.Contains(t, out, `  no match, state ""`)
}

func TestTrace_IgnoreUnmatchedAndConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "waypoint.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("initial_request = \"login\"\n"), 0o644))

	out, err := run(t, "trace", "--ignore-unmatched", "--config", cfg, writeTree(t), "nowhere")
	require.NoError(t, err)
	assert.Contains(t, out, "> login (initial)\n")
	assert.Contains(t, out, "  = root > login\n")
	assert.Contains(t, out, `  no match, state "root > login"`)
}

func TestTrace_NeedsRequests(t *testing.T) {
	_, err := run(t, "trace", writeTree(t))
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-apimerge/pkg/model"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := &cli{stdout: &stdout, stderr: &stderr, logger: zap.NewNop()}
	root := app.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMergeCommandWritesDocument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "merged.json")

	_, stderr, err := run(t, "merge",
		"--module", "orders=testdata/orders.yaml@/orders",
		"--module", "customers=testdata/customers.yaml@/customers",
		"--output", out,
		"--format", "json",
	)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc, err := model.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"/customers/pets", "/orders/pets"}, doc.PathKeys())
	assert.Equal(t, []string{"Error", "Owner", "Pet", "Pet_1"}, doc.ComponentNames(model.KindSchemas))
}

func TestMergeCommandPrintsToStdout(t *testing.T) {
	stdout, _, err := run(t, "merge", "-m", "testdata/orders.yaml@/orders")
	require.NoError(t, err)

	doc, err := model.Decode([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, []string{"/orders/pets"}, doc.PathKeys())
}

func TestMergeCommandStrict(t *testing.T) {
	args := []string{"merge",
		"--module", "a=testdata/orders.yaml",
		"--module", "b=testdata/customers.yaml",
	}

	_, stderr, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "The path /pets from module b clashes with the same path from module a")

	_, _, err = run(t, append(args, "--strict")...)
	assert.ErrorContains(t, err, "1 problem(s)")
}

func TestMergeCommandRequiresModules(t *testing.T) {
	_, _, err := run(t, "merge")
	assert.ErrorContains(t, err, "no modules configured")
}

func TestMergeCommandUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	orders, err := filepath.Abs("testdata/orders.yaml")
	require.NoError(t, err)
	out := filepath.Join(dir, "merged.yaml")
	cfg := filepath.Join(dir, "apimerge.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
modules:
  - name: orders
    source: `+orders+`
    contextRoot: /shop
output:
  path: `+out+`
info:
  title: Shop
`), 0o644))

	_, _, err = run(t, "--config", cfg, "merge")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc, err := model.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"/shop/pets"}, doc.PathKeys())
}

func TestValidateCommand(t *testing.T) {
	stdout, _, err := run(t, "validate", "testdata/orders.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "valid OpenAPI 3.0.3 document (1 paths, 1 operation ids, 2 components)")

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths:\n  /a:\n    get:\n      responses:\n        '200': {$ref: '#/components/responses/Missing'}\n"), 0o644))
	_, _, err = run(t, "validate", broken)
	assert.Error(t, err)
}

func TestBuildLogger(t *testing.T) {
	logger, err := buildLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = buildLogger("loud", false)
	assert.Error(t, err)
}

func TestMergeCommandSanitizesDescriptions(t *testing.T) {
	module := filepath.Join(t.TempDir(), "notes.yaml")
	require.NoError(t, os.WriteFile(module, []byte(`
openapi: 3.0.3
info:
  title: Notes
  version: "1"
  description: <script>alert(1)</script>Team <em>notes</em>
paths: {}
`), 0o644))

	stdout, _, err := run(t, "merge", "-m", module)
	require.NoError(t, err)
	assert.Contains(t, stdout, "<script>")

	stdout, _, err = run(t, "merge", "-m", module, "--sanitize")
	require.NoError(t, err)
	doc, err := model.Decode([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, "Team <em>notes</em>", doc.Info["description"])
}

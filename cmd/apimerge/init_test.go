package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-apimerge/internal/config"
)

type scriptedDriver struct {
	inputs   []string
	confirms []bool
	selects  []int

	rejected []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg inputConfig) (string, error) {
	for len(d.inputs) > 0 {
		answer := d.inputs[0]
		d.inputs = d.inputs[1:]
		if cfg.Validator != nil {
			if err := cfg.Validator(answer); err != nil {
				d.rejected = append(d.rejected, answer)
				continue
			}
		}
		if answer == "" {
			answer = cfg.Default
		}
		return answer, nil
	}
	return "", errAborted
}

func (d *scriptedDriver) Confirm(_ context.Context, _ confirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errAborted
	}
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptedDriver) Select(_ context.Context, _ selectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, errAborted
	}
	answer := d.selects[0]
	d.selects = d.selects[1:]
	return answer, nil
}

func runInit(t *testing.T, driver promptDriver, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := &cli{stdout: &stdout, stderr: &stderr, logger: zap.NewNop(), prompts: driver}
	root := app.rootCmd()
	root.SetArgs(append([]string{"init"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestInitCommandWritesLoadableConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "apimerge.yaml")
	driver := &scriptedDriver{
		inputs: []string{
			"orders", "testdata/orders.yaml", "orders",
			"/orders",
			"orders", "customers", "testdata/customers.yaml", "",
			"",
			"Shop",
		},
		confirms: []bool{true, false, true},
		selects:  []int{1},
	}

	stdout, _, err := runInit(t, driver, "--file", file)
	require.NoError(t, err)
	assert.Contains(t, stdout, "with 2 module(s)")
	assert.Equal(t, []string{"orders", "orders"}, driver.rejected, "bad context root and duplicate name are asked again")

	cfg, err := config.Load(file)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []config.ModuleConfig{
		{Name: "orders", Source: "testdata/orders.yaml", ContextRoot: "/orders"},
		{Name: "customers", Source: "testdata/customers.yaml"},
	}, cfg.Modules)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "openapi.json", cfg.Output.Path)
	assert.True(t, cfg.Output.Sanitize)
	assert.Equal(t, "Shop", cfg.Info.Title)
}

func TestInitCommandRefusesToOverwrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "apimerge.yaml")
	require.NoError(t, os.WriteFile(file, []byte("modules: []\n"), 0o644))

	_, _, err := runInit(t, &scriptedDriver{}, "--file", file)
	assert.ErrorContains(t, err, "already exists")
}

func TestInitCommandAborted(t *testing.T) {
	file := filepath.Join(t.TempDir(), "apimerge.yaml")

	_, stderr, err := runInit(t, &scriptedDriver{inputs: []string{"orders"}}, "--file", file)
	require.NoError(t, err)
	assert.Contains(t, stderr, "init aborted")
	assert.NoFileExists(t, file)
}

func TestIndexOf(t *testing.T) {
	assert.Equal(t, 1, indexOf(outputFormats, "json"))
	assert.Equal(t, -1, indexOf(outputFormats, "toml"))
}

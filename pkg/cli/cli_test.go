package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jsynth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerate_Deterministic(t *testing.T) {
	profile := writeProfile(t, "")
	a, err := run(t, "generate", "--profile", profile, "--seed", "7")
	require.NoError(t, err)
	b, err := run(t, "generate", "--profile", profile, "--seed", "7")
	require.NoError(t, err)

	assert.Contains(t, a, "seed 7")
	// the sample ids differ, the programs do not
	body := func(s string) string { return s[strings.Index(s, "\n")+1:] }
	assert.Equal(t, body(a), body(b))
	assert.NotEmpty(t, body(a))
}

func TestGenerate_SingleStrategy(t *testing.T) {
	profile := writeProfile(t, "")
	out, err := run(t, "generate", "--profile", profile, "--strategy", "WhileLoop", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "while (")
}

func TestGenerate_UnknownStrategySuggests(t *testing.T) {
	profile := writeProfile(t, "")
	_, err := run(t, "generate", "--profile", profile, "--strategy", "WhileLop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WhileLoop")
}

func TestGenerate_OutputDirAndArchive(t *testing.T) {
	profile := writeProfile(t, "seed: 3\nweights:\n  WhileLoop: 200\n  ForLoop: 0\n")
	dir := t.TempDir()
	db := filepath.Join(dir, "samples.db")
	outDir := filepath.Join(dir, "out")

	_, err := run(t, "generate", "--profile", profile, "-n", "3", "-o", outDir, "--archive", db)
	require.NoError(t, err)
	files, err := filepath.Glob(filepath.Join(outDir, "*.js"))
	require.NoError(t, err)
	assert.Len(t, files, 3)

	out, err := run(t, "samples", "--archive", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	// the sample carries its own profile, whatever profile is current
	id := strings.Fields(lines[0])[0]
	other := writeProfile(t, "weights:\n  WhileLoop: 0\n")
	js, err := run(t, "replay", "--profile", other, "--archive", db, "--regenerate", id)
	require.NoError(t, err)
	saved, err := os.ReadFile(filepath.Join(outDir, id+".js"))
	require.NoError(t, err)
	assert.Equal(t, string(saved), js)
}

func TestStrategies_List(t *testing.T) {
	profile := writeProfile(t, "weights:\n  WhileLoop: 0\n")
	out, err := run(t, "strategies", "--profile", profile, "--group", "control")
	require.NoError(t, err)
	assert.Contains(t, out, "IfElse")
	assert.NotContains(t, out, "IntegerLiteral")
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "WhileLoop ") {
			assert.Contains(t, line, " 0 ")
		}
	}
}

func TestStrategies_BadProfile(t *testing.T) {
	profile := writeProfile(t, "weights:\n  Nope: 1\n")
	_, err := run(t, "strategies", "--profile", profile)
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	names := []string{"WhileLoop", "DoWhileLoop", "ForLoop", "IfElse"}
	assert.Equal(t, []string{"WhileLoop", "DoWhileLoop"}, suggest("whileloop", names))
	assert.Equal(t, []string{"IfElse"}, suggest("IfEls3", names))
	assert.Empty(t, suggest("zzzzzzzz", names))
}

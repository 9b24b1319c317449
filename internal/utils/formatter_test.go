package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatGoSource(t *testing.T) {
	src := []byte("package demo\nimport (\n\"fmt\"\n  \"strings\"\n)\nfunc   Hello( ) string {return fmt.Sprint(strings.ToUpper(\"x\"))}\n")

	formatted, err := FormatGoSource("demo.go", src)
	require.NoError(t, err)
	assert.Equal(t, "package demo\n\nimport (\n\t\"fmt\"\n\t\"strings\"\n)\n\nfunc Hello() string { return fmt.Sprint(strings.ToUpper(\"x\")) }\n", string(formatted))
}

func TestFormatGoSourceRejectsInvalidCode(t *testing.T) {
	_, err := FormatGoSource("broken.go", []byte("package demo\nfunc {"))
	assert.ErrorContains(t, err, "broken.go")
}

func TestWriteGoFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "autogen_demo_router.go")

	require.NoError(t, WriteGoFile(target, []byte("package demo\nvar  X = 1\n")))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "package demo\n\nvar X = 1\n", string(data))

	err = WriteGoFile(target, []byte("package demo\nvar = \n"))
	assert.Error(t, err)
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "package demo\n\nvar X = 1\n", string(data), "a failed write keeps the previous file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enum/internal/gen"
)

func TestRun(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	in := filepath.Join(dir, "colors.yaml")
	require.Nil(t, os.WriteFile(in, []byte("package: colors\ntypes: [{name: Colors::Primary, members: [Red, Blue]}]\n"), 0o644))

	// Act
	err := run([]string{"-in", in})

	// Assert
	require.Nil(t, err)

	src, err := os.ReadFile(filepath.Join(dir, "colors_enum.go"))
	require.Nil(t, err)
	require.True(t, strings.HasPrefix(string(src), "// Code generated by enumgen from colors.yaml; DO NOT EDIT."))
	require.Contains(t, string(src), `PrimaryRed  = Primarys.Must("Red")`)

	// Arrange
	out := filepath.Join(dir, "other.go")

	// Act
	err = run([]string{"-in", in, "-out", out})

	// Assert
	require.Nil(t, err)
	require.FileExists(t, out)
}

func TestRunErrors(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.Nil(t, os.WriteFile(bad, []byte("package: bad\n"), 0o644))

	// Act
	err := run([]string{})

	// Assert
	require.ErrorIs(t, err, flag.ErrHelp)

	// Act
	err = run([]string{"-in", filepath.Join(dir, "missing.yaml")})

	// Assert
	require.ErrorIs(t, err, os.ErrNotExist)

	// Act
	err = run([]string{"-in", bad})

	// Assert
	require.ErrorIs(t, err, gen.ErrBadManifest)
	require.NoFileExists(t, filepath.Join(dir, "bad_enum.go"))
}

package wheel

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWheel builds a minimal wheel archive in a temp directory with
// the given entries (archive path -> contents) and returns its path.
func writeTestWheel(t *testing.T, name string, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for entryName, content := range entries {
		w, err := zw.Create(entryName)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

const sampleMetadata = `Metadata-Version: 2.1
Name: speedwagon
Version: 0.4.0b12
Summary: Collection of tools and workflows for DS
Author-email: "University Library at The University of Illinois at Urbana Champaign: Preservation Services" <prescons@library.illinois.edu>
License: University of Illinois/NCSA Open Source License
License: Copyright (c) 2022 University of Illinois Board of Trustees

Long description body that should be ignored by the header parser.
`

// TestReadMetadata verifies header extraction from a wheel METADATA file,
// including the multi-line license join.
func TestReadMetadata(t *testing.T) {
	archive := writeTestWheel(t, "speedwagon-0.4.0b12-py3-none-any.whl", map[string]string{
		"speedwagon-0.4.0b12.dist-info/METADATA": sampleMetadata,
	})

	meta, err := ReadMetadata(archive)
	require.NoError(t, err)

	assert.Equal(t, "speedwagon", meta.Name)
	assert.Equal(t, "0.4.0b12", meta.Version)
	assert.Equal(t, "Collection of tools and workflows for DS", meta.Summary)
	assert.Contains(t, meta.License, "University of Illinois/NCSA Open Source License")
	assert.Contains(t, meta.License, "Copyright (c) 2022")
}

// TestReadMetadata_NoBlankLineTerminator verifies that a METADATA file
// without a long description (no terminating blank line) still parses;
// some build backends emit exactly this shape.
func TestReadMetadata_NoBlankLineTerminator(t *testing.T) {
	archive := writeTestWheel(t, "pkg-1.0-py3-none-any.whl", map[string]string{
		"pkg-1.0.dist-info/METADATA": "Name: pkg\nVersion: 1.0\n",
	})

	meta, err := ReadMetadata(archive)
	require.NoError(t, err)
	assert.Equal(t, "pkg", meta.Name)
	assert.Equal(t, "1.0", meta.Version)
}

// TestReadMetadata_Missing verifies the error when the wheel carries no
// METADATA file at all.
func TestReadMetadata_Missing(t *testing.T) {
	archive := writeTestWheel(t, "pkg-1.0-py3-none-any.whl", map[string]string{
		"pkg/__init__.py": "",
	})

	_, err := ReadMetadata(archive)
	assert.Error(t, err)
}

// TestMetadata_Author verifies extraction of the display name from the
// quoted Author-email form, and the empty result for other forms.
func TestMetadata_Author(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			"quoted name",
			`"Jane Maintainer" <jane@example.org>`,
			"Jane Maintainer",
		},
		{
			"bare email",
			"jane@example.org",
			"",
		},
		{
			"empty",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := Metadata{AuthorEmail: tt.header}
			assert.Equal(t, tt.expected, meta.Author())
		})
	}
}

// TestTopLevel verifies reading the top-level import package, which wheels
// record under a versioned dist-info directory.
func TestTopLevel(t *testing.T) {
	archive := writeTestWheel(t, "speedwagon-0.4.0-py3-none-any.whl", map[string]string{
		"speedwagon-0.4.0.dist-info/top_level.txt": "speedwagon\n",
	})

	topLevel, err := TopLevel(archive)
	require.NoError(t, err)
	assert.Equal(t, "speedwagon", topLevel)
}

// TestTopLevel_NotAWheel verifies rejection of non-wheel archives.
func TestTopLevel_NotAWheel(t *testing.T) {
	_, err := TopLevel("dist/speedwagon-0.4.0.tar.gz")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown file type")
}

// TestReadArchiveFile_BaseNameMatch verifies that lookup matches on base
// name regardless of the dist-info directory the file sits under.
func TestReadArchiveFile_BaseNameMatch(t *testing.T) {
	archive := writeTestWheel(t, "pkg-2.1-py3-none-any.whl", map[string]string{
		"pkg-2.1.dist-info/top_level.txt": "pkg",
		"pkg/data/top_level_unrelated":    "decoy",
	})

	data, err := ReadArchiveFile(archive, "top_level.txt")
	require.NoError(t, err)
	assert.Equal(t, "pkg", string(data))

	_, err = ReadArchiveFile(archive, "RECORD")
	assert.Error(t, err)
}

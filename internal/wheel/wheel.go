package wheel

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"net/textproto"
	"path"
	"regexp"
	"strings"

	"github.com/uiuclibrary/speedpack/internal/model"
)

// Metadata holds the subset of wheel METADATA fields the packaging
// pipeline consumes.
type Metadata struct {
	// Name is the distribution name (the "Name" header).
	Name string

	// Version is the distribution version string (PEP 440).
	Version string

	// Summary is the one-line package description.
	Summary string

	// AuthorEmail is the raw "Author-email" header, typically in the form
	// `"Full Name" <user@example.org>`.
	AuthorEmail string

	// License is the license text or identifier from the "License" header.
	// May span multiple lines when the project embeds its full license.
	License string
}

// authorEmailRegex extracts the quoted author name out of an
// `"Author Name" <user@example.org>` header value.
var authorEmailRegex = regexp.MustCompile(`^"(?P<author>.+)" <[a-zA-Z0-9]+@[a-zA-Z0-9.]+>`)

// Author returns the display name portion of the Author-email header, or ""
// when the header does not follow the quoted-name form.
func (m Metadata) Author() string {
	result := authorEmailRegex.FindStringSubmatch(m.AuthorEmail)
	if result == nil {
		return ""
	}
	return result[authorEmailRegex.SubexpIndex("author")]
}

// ReadArchiveFile returns the contents of the first non-directory entry in
// the wheel whose base name matches fileName, searching the whole archive.
// Wheel layouts bury METADATA and top_level.txt under a versioned
// *.dist-info directory, so matching on the base name avoids hardcoding
// the distribution name and version.
func ReadArchiveFile(archive, fileName string) ([]byte, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", archive, err)
	}
	defer func() { _ = zr.Close() }()

	for _, item := range zr.File {
		if item.FileInfo().IsDir() {
			continue
		}
		if path.Base(item.Name) != fileName {
			continue
		}
		f, err := item.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s in %s: %w", item.Name, archive, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s in %s: %w", item.Name, archive, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("no %s file in %s", fileName, archive)
}

// ReadMetadata extracts and parses the METADATA file of a wheel.
//
// METADATA is an email-style header block (optionally followed by a long
// description body, which is ignored here). Repeated "License" headers are
// joined with newlines since multi-line license texts are folded into
// continuation headers by some build backends.
func ReadMetadata(archive string) (Metadata, error) {
	raw, err := ReadArchiveFile(archive, "METADATA")
	if err != nil {
		return Metadata{}, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("no metadata found for %s", archive),
			err,
		)
	}

	reader := textproto.NewReader(bufio.NewReader(strings.NewReader(string(raw))))
	header, err := reader.ReadMIMEHeader()
	// ReadMIMEHeader returns io.EOF alongside the parsed headers when the
	// block is not terminated by a blank line, which is valid for wheels
	// without a long description. Only fail when nothing was parsed.
	if err != nil && len(header) == 0 {
		return Metadata{}, fmt.Errorf("failed to parse METADATA in %s: %w", archive, err)
	}

	return Metadata{
		Name:        header.Get("Name"),
		Version:     header.Get("Version"),
		Summary:     header.Get("Summary"),
		AuthorEmail: header.Get("Author-email"),
		License:     strings.Join(header.Values("License"), "\n"),
	}, nil
}

// TopLevel returns the top-level import package recorded in the wheel's
// top_level.txt. Only .whl archives are supported; source distributions
// never reach this code because the CLI validates the extension up front.
func TopLevel(archive string) (string, error) {
	if !strings.HasSuffix(archive, ".whl") {
		return "", fmt.Errorf("unknown file type: %s", archive)
	}
	data, err := ReadArchiveFile(archive, "top_level.txt")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Package shaderpack finds shaderpacks on disk and reads their block
// mapping files, for unpacked directories and zip archives alike.
package shaderpack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"shaderlint/internal/logging"
)

// PropertiesPath is where shaderpacks keep their block mappings,
// relative to the pack root.
const PropertiesPath = "shaders/block.properties"

// ErrNoProperties marks a pack that carries no block.properties file.
var ErrNoProperties = errors.New("no block.properties")

// Pack is one discovered shaderpack.
type Pack struct {
	Name string // directory or zip file name
	Path string // filesystem path
	Zip  bool
}

// Discover lists the shaderpacks in dir: directories containing
// shaders/block.properties, plus every .zip file. Zip contents are not
// inspected here; a zip without the properties file surfaces as
// ErrNoProperties when opened.
func Discover(dir string) ([]Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading shaderpacks directory: %w", err)
	}

	var packs []Pack
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if _, err := os.Stat(filepath.Join(path, filepath.FromSlash(PropertiesPath))); err != nil {
				logging.AnalysisDebug("Directory %s has no %s, not a shaderpack", entry.Name(), PropertiesPath)
				continue
			}
			packs = append(packs, Pack{Name: entry.Name(), Path: path})
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".zip") {
			packs = append(packs, Pack{Name: entry.Name(), Path: path, Zip: true})
		}
	}

	logging.Analysis("Discovered %d shaderpacks in %s", len(packs), dir)
	return packs, nil
}

// OpenProperties opens the pack's block.properties. The caller owns the
// returned reader; for zip packs closing it also closes the archive.
func (p Pack) OpenProperties() (io.ReadCloser, error) {
	if p.Zip {
		return p.openZipProperties()
	}

	f, err := os.Open(filepath.Join(p.Path, filepath.FromSlash(PropertiesPath)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", p.Name, ErrNoProperties)
	}
	if err != nil {
		return nil, fmt.Errorf("opening block.properties in %s: %w", p.Name, err)
	}
	return f, nil
}

func (p Pack) openZipProperties() (io.ReadCloser, error) {
	r, err := zip.OpenReader(p.Path)
	if err != nil {
		return nil, fmt.Errorf("opening zip %s: %w", p.Name, err)
	}

	for _, f := range r.File {
		if f.Name != PropertiesPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("reading %s from %s: %w", PropertiesPath, p.Name, err)
		}
		return &zipEntryReader{rc: rc, archive: r}, nil
	}

	r.Close()
	return nil, fmt.Errorf("%s: %w", p.Name, ErrNoProperties)
}

// zipEntryReader closes the archive together with the entry.
type zipEntryReader struct {
	rc      io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipEntryReader) Read(p []byte) (int, error) { return z.rc.Read(p) }

func (z *zipEntryReader) Close() error {
	err := z.rc.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// Package archive reads and writes design bundles: zip files carrying one
// state token per design.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

const (
	bundleDir = "designs/"
	tokenExt  = ".cssd"

	// tokens are short, anything bigger is not ours
	maxTokenSize = 1 << 20
)

// ErrUnsafePath is returned for bundle entries which could escape target
// directory when extracted.
var ErrUnsafePath = errors.New("unsafe path in bundle")

// Entry is a single design in bundle.
type Entry struct {
	Name     string
	Token    string
	Modified time.Time
}

// WalkFunc is called for every design in bundle. If an error is returned,
// processing stops.
type WalkFunc func(e Entry) error

// Write puts entries into bundle. Entry name is kept in file comment, file
// name is derived from it.
func Write(w io.Writer, entries []Entry) error {
	arc := zip.NewWriter(w)
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		base := slug.Make(e.Name)
		if base == "" {
			return fmt.Errorf("design name '%s' cannot be used for a file name", e.Name)
		}
		// slugs are unique in store, but bundles may be built from anything
		if n := seen[base]; n > 0 {
			seen[base]++
			base = fmt.Sprintf("%s-%d", base, n)
		} else {
			seen[base] = 1
		}
		fw, err := arc.CreateHeader(&zip.FileHeader{
			Name:     bundleDir + base + tokenExt,
			Comment:  e.Name,
			Method:   zip.Deflate,
			Modified: e.Modified,
		})
		if err != nil {
			return fmt.Errorf("unable to add '%s' to bundle: %w", e.Name, err)
		}
		if _, err := io.WriteString(fw, e.Token); err != nil {
			return fmt.Errorf("unable to write '%s' to bundle: %w", e.Name, err)
		}
	}
	return arc.Close()
}

// Walk calls walkFn for every design in bundle at name. Files outside of
// designs directory are ignored.
func Walk(name string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(name)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("%w: %q", ErrUnsafePath, f.Name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, bundleDir) || path.Ext(f.Name) != tokenExt {
			continue
		}
		e, err := readEntry(f)
		if err != nil {
			return err
		}
		if err := walkFn(e); err != nil {
			return err
		}
	}
	return nil
}

func readEntry(f *zip.File) (Entry, error) {
	rc, err := f.Open()
	if err != nil {
		return Entry{}, fmt.Errorf("unable to open %q: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxTokenSize+1))
	if err != nil {
		return Entry{}, fmt.Errorf("unable to read %q: %w", f.Name, err)
	}
	if len(data) > maxTokenSize {
		return Entry{}, fmt.Errorf("%q is too large", f.Name)
	}

	e := Entry{Name: f.Comment, Token: strings.TrimSpace(string(data)), Modified: f.Modified}
	if e.Name == "" {
		e.Name = strings.TrimSuffix(path.Base(f.Name), tokenExt)
	}
	return e, nil
}

// isSafePath returns false for absolute paths and paths with ".."
// components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

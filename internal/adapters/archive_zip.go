package adapters

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/flate"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/types"
)

// archiveEpoch is stamped on every entry so identical trees produce
// identical archives. It is the earliest time MS-DOS timestamps encode.
var archiveEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

type ZipArchiveAdapter struct {
	Level int
}

func NewZipArchiveAdapter() ZipArchiveAdapter {
	return ZipArchiveAdapter{Level: flate.BestCompression}
}

func (a ZipArchiveAdapter) CreateArchive(ctx context.Context, srcDir string, destPath string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("archive source directory not found").
			WithCause(err)
	}
	if !info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("archive source is not a directory: " + srcDir)
	}
	if isWithin(srcDir, destPath) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("archive path must not be inside the archived directory")
	}
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create archive directory").
			WithCause(err)
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove existing archive").
			WithCause(err)
	}

	tmp, err := os.CreateTemp(destDir, ".archive-*.tmp")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temporary archive").
			WithCause(err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	zw := zip.NewWriter(tmp)
	level := a.Level
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
	if err := writeZipTree(ctx, zw, srcDir); err != nil {
		_ = zw.Close()
		_ = tmp.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write archive entries").
			WithCause(err)
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to finalize archive").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close archive").
			WithCause(err)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to move archive into place").
			WithCause(err)
	}
	committed = true
	return nil
}

// writeZipTree adds every directory and regular file below root in lexical
// order with fixed timestamps and modes.
func writeZipTree(ctx context.Context, zw *zip.Writer, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		switch {
		case d.IsDir():
			header := &zip.FileHeader{
				Name:     name + "/",
				Method:   zip.Store,
				Modified: archiveEpoch,
			}
			header.SetMode(fs.ModeDir | 0o755)
			_, err := zw.CreateHeader(header)
			return err
		case d.Type().IsRegular():
			header := &zip.FileHeader{
				Name:     name,
				Method:   zip.Deflate,
				Modified: archiveEpoch,
			}
			header.SetMode(0o644)
			w, err := zw.CreateHeader(header)
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(w, f)
			return err
		default:
			return nil
		}
	})
}

func (a ZipArchiveAdapter) ListEntries(path string) ([]types.ArchiveEntry, error) {
	reader, err := openZip(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	entries := make([]types.ArchiveEntry, 0, len(reader.File))
	for _, file := range reader.File {
		entries = append(entries, types.ArchiveEntry{
			Name: file.Name,
			Size: file.UncompressedSize64,
			Dir:  strings.HasSuffix(file.Name, "/"),
		})
	}
	return entries, nil
}

func (a ZipArchiveAdapter) ReadEntry(path string, name string) ([]byte, error) {
	reader, err := openZip(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to open archive entry " + name).
				WithCause(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read archive entry " + name).
				WithCause(err)
		}
		return data, nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("archive entry not found: " + name)
}

func openZip(path string) (*zip.ReadCloser, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("archive not found").
				WithCause(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to open archive").
			WithCause(err)
	}
	reader.RegisterDecompressor(zip.Deflate, flate.NewReader)
	return reader, nil
}

func isWithin(root string, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

var (
	_ ports.ArchiveWriterPort = ZipArchiveAdapter{}
	_ ports.ArchiveReaderPort = ZipArchiveAdapter{}
)

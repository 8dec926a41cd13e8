package compress

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// tarHandler consolidates all sources of a target into one tar artifact,
// optionally compressed. The artifact is named after the base name of the
// target and sources are stored under their archive-relative names, in
// name order.
type tarHandler struct{}

func (h *tarHandler) CompressSources(req *Request, workDir string) (string, error) {
	archivePath := filepath.Join(workDir, filepath.Base(req.TargetName))

	f, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}

	err = h.writeArchive(f, req)
	if err != nil {
		_ = f.Close()
		return "", fmt.Errorf("creating %s archive %q failed: %w", req.Scheme, archivePath, err)
	}

	if err := f.Close(); err != nil {
		return "", err
	}

	return archivePath, nil
}

func (h *tarHandler) writeArchive(f io.Writer, req *Request) error {
	w := f

	var compressor io.WriteCloser
	if scheme := streamScheme(req.Scheme); scheme != "" {
		var err error

		compressor, err = streamWriter(scheme, f)
		if err != nil {
			return err
		}

		w = compressor
	}

	tw := tar.NewWriter(w)

	sources := slices.Clone(req.Sources)
	slices.SortFunc(sources, func(a, b *Source) int {
		return strings.Compare(a.Name, b.Name)
	})

	for _, src := range sources {
		if err := addSource(tw, src); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}

	if compressor != nil {
		return compressor.Close()
	}

	return nil
}

// addSource appends one source file to the tar stream.
// Staged sources are symlinks into the run directory, the stat call
// follows them so that the artifact contains the file content.
func addSource(tw *tar.Writer, src *Source) error {
	fi, err := os.Stat(src.Path)
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(fi, "")
	if err != nil {
		return err
	}

	hdr.Name = src.Name

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	srcFile, err := os.Open(src.Path)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	_, err = io.Copy(tw, srcFile)

	return err
}

// streamScheme maps a tar scheme to the stream compressor it wraps the
// archive in, "" for plain tar.
func streamScheme(tarScheme string) string {
	switch tarScheme {
	case "tar.gz", "tgz":
		return "gz"
	case "tar.zst":
		return "zst"
	case "tar.lz4":
		return "lz4"
	default:
		return ""
	}
}

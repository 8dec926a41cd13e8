package compress

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lijunde/rose/internal/fs"
)

// fileHandler compresses every source of a target individually and points
// the source at the compressed copy in the work directory. Sources whose
// path already carries the scheme suffix are left alone.
type fileHandler struct{}

func (h *fileHandler) CompressSources(req *Request, workDir string) (string, error) {
	suffix := "." + req.Scheme

	for _, src := range req.Sources {
		if strings.HasSuffix(src.Path, suffix) {
			continue
		}

		outPath := filepath.Join(workDir, src.Name+suffix)
		if err := fs.Mkdir(filepath.Dir(outPath)); err != nil {
			return "", err
		}

		if err := compressFile(req.Scheme, src.Path, outPath); err != nil {
			return "", err
		}

		src.Path = outPath
	}

	return "", nil
}

func compressFile(scheme, srcPath, outPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}

	w, err := streamWriter(scheme, out)
	if err != nil {
		_ = out.Close()
		return err
	}

	if _, err := io.Copy(w, in); err != nil {
		_ = w.Close()
		_ = out.Close()
		return err
	}

	if err := w.Close(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

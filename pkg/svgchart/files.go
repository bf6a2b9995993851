package svgchart

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExt is the extension of written chart files.
const FileExt = ".svg"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileName returns the file name of a document.
func (d *Document) FileName() string {
	return d.Name + FileExt
}

// WriteDir writes each document into dir as <name>.svg and returns the paths.
func WriteDir(dir string, docs []*Document) ([]string, error) {
	err := os.MkdirAll(dir, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}

	paths := make([]string, 0, len(docs))

	for _, doc := range docs {
		p := filepath.Join(dir, doc.FileName())

		err = os.WriteFile(p, doc.Bytes(), filePerm)
		if err != nil {
			return paths, fmt.Errorf("write %s: %w", doc.FileName(), err)
		}

		paths = append(paths, p)
	}

	return paths, nil
}

// This file walks the incoming folder and turns every supported archive it
// finds into a queue entry for the metadata batch.

package library

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/util"
)

// QueueFileID derives a stable ID from a file path, so rediscovering the
// same file yields the same queue key.
func QueueFileID(path string) string {
	sum := sha1.Sum([]byte(filepath.ToSlash(path)))
	return hex.EncodeToString(sum[:])
}

// DiscoverIncoming returns every supported archive under root in natural
// path order. A missing root is treated as an empty folder.
func DiscoverIncoming(root string) ([]models.QueueFile, error) {
	files := make([]models.QueueFile, 0)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return files, nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !IsSupportedArchive(name) {
			return nil
		}
		files = append(files, models.QueueFile{
			ID:   QueueFileID(path),
			Path: path,
			Name: name,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan incoming folder %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return util.NaturalSortLess(files[i].Path, files[j].Path)
	})
	return files, nil
}

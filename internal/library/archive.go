// This file reads comic archives (.cbz/.cbr via mholt/archives, .pdf via
// go-fitz) to list their pages and pull out the cover image.

package library

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/mholt/archives"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/util"
)

var supportedArchives = map[string]bool{
	".cbz": true,
	".cbr": true,
	".zip": true,
	".rar": true,
	".pdf": true,
}

// IsSupportedArchive reports whether name has an extension the importer
// knows how to open.
func IsSupportedArchive(name string) bool {
	return supportedArchives[strings.ToLower(filepath.Ext(name))]
}

// isImageFile checks if a filename has a common image file extension.
func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".gif" || ext == ".webp"
}

// skipEntry filters out OS metadata that often rides along in archives.
func skipEntry(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(base, ".")
}

// ParseArchive lists the pages of an archive in reading order and returns
// the raw bytes of the first page for use as a cover.
func ParseArchive(filePath string) ([]*models.Page, []byte, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(filePath)
	case ".cbz", ".cbr", ".zip", ".rar":
		return parseComicArchive(filePath)
	default:
		return nil, nil, fmt.Errorf("unsupported archive type: %s", ext)
	}
}

func parseComicArchive(filePath string) ([]*models.Page, []byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	ctx := context.Background()
	// Identify by content as well as name: .cbz/.cbr are zip/rar underneath.
	format, stream, err := archives.Identify(ctx, filepath.Base(filePath), f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to identify archive %s: %w", filePath, err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not an extractable archive", filePath)
	}

	var names []string
	var cover []byte
	var coverName string
	err = extractor.Extract(ctx, stream, func(ctx context.Context, entry archives.FileInfo) error {
		if entry.IsDir() || skipEntry(entry.NameInArchive) || !isImageFile(entry.NameInArchive) {
			return nil
		}
		names = append(names, entry.NameInArchive)

		// Keep only the bytes of the page that sorts first so far.
		if coverName != "" && !util.NaturalSortLess(entry.NameInArchive, coverName) {
			return nil
		}
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", entry.NameInArchive, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.NameInArchive, err)
		}
		cover, coverName = data, entry.NameInArchive
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract %s: %w", filePath, err)
	}

	util.SortNatural(names)
	pages := make([]*models.Page, len(names))
	for i, name := range names {
		pages[i] = &models.Page{FileName: name, Index: i}
	}
	return pages, cover, nil
}

func parsePDF(filePath string) ([]*models.Page, []byte, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open pdf %s: %w", filePath, err)
	}
	defer doc.Close()

	count := doc.NumPage()
	pages := make([]*models.Page, count)
	for i := 0; i < count; i++ {
		pages[i] = &models.Page{FileName: fmt.Sprintf("page-%03d.jpg", i+1), Index: i}
	}
	if count == 0 {
		return pages, nil, nil
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render first page of %s: %w", filePath, err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, nil, fmt.Errorf("failed to encode first page of %s: %w", filePath, err)
	}
	return pages, buf.Bytes(), nil
}

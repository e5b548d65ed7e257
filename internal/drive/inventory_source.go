package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/repository"
)

type fileStore interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
	ExportFile(ctx context.Context, fileID, mimeType string, w io.Writer) error
}

// InventorySource loads the newest snapshot file from a Drive folder. CSV,
// XLSX (first sheet) and native Google Sheets are accepted.
type InventorySource struct {
	files    fileStore
	folderID string
}

var _ repository.InventoryRepository = (*InventorySource)(nil)

func NewInventorySource(files fileStore, folderID string) *InventorySource {
	return &InventorySource{files: files, folderID: folderID}
}

func (s *InventorySource) LoadInventorySnapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	files, err := s.files.ListFiles(ctx, s.folderID)
	if err != nil {
		return domain.InventorySnapshot{}, err
	}

	f := latestSnapshotFile(files)
	if f == nil {
		return domain.InventorySnapshot{}, fmt.Errorf("no csv, xlsx or sheet file in drive folder %s", s.folderID)
	}

	log.Debug().Str("file", f.Name).Str("modified", f.ModifiedTime).Msg("loading inventory snapshot from drive")

	var buf bytes.Buffer
	switch kindOf(f) {
	case kindSheet:
		if err := s.files.ExportFile(ctx, f.ID, "text/csv", &buf); err != nil {
			return domain.InventorySnapshot{}, fmt.Errorf("failed to export %s: %w", f.Name, err)
		}
	case kindXLSX:
		if err := s.files.DownloadFile(ctx, f.ID, &buf); err != nil {
			return domain.InventorySnapshot{}, fmt.Errorf("failed to download %s: %w", f.Name, err)
		}
		converted, err := xlsxToCSV(&buf)
		if err != nil {
			return domain.InventorySnapshot{}, fmt.Errorf("failed to convert %s to csv: %w", f.Name, err)
		}
		buf.Reset()
		buf.Write(converted)
	default:
		if err := s.files.DownloadFile(ctx, f.ID, &buf); err != nil {
			return domain.InventorySnapshot{}, fmt.Errorf("failed to download %s: %w", f.Name, err)
		}
	}

	return repository.DecodeInventoryCSV(&buf)
}

type fileKind int

const (
	kindUnsupported fileKind = iota
	kindCSV
	kindXLSX
	kindSheet
)

func kindOf(f *File) fileKind {
	if f.MimeType == googleSheetMimeType {
		return kindSheet
	}
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".csv":
		return kindCSV
	case ".xlsx":
		return kindXLSX
	default:
		return kindUnsupported
	}
}

// latestSnapshotFile picks the most recently modified supported file.
// RFC 3339 timestamps from Drive compare correctly as strings.
func latestSnapshotFile(files []*File) *File {
	var latest *File
	for _, f := range files {
		if kindOf(f) == kindUnsupported {
			continue
		}
		if latest == nil || f.ModifiedTime > latest.ModifiedTime {
			latest = f
		}
	}
	return latest
}

package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	googleSheetMimeType = "application/vnd.google-apps.spreadsheet"

	listPageSize = 100
	listFields   = "nextPageToken, files(id, name, mimeType, modifiedTime, size)"
)

// Service is a read-only view of the Drive folders holding inventory snapshots.
type Service struct {
	srv *drive.Service
}

// NewService authenticates with a service account key.
func NewService(ctx context.Context, credentialsJSON string) (*Service, error) {
	jwt, err := google.JWTConfigFromJSON([]byte(credentialsJSON), drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("drive: parse service account key: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("drive: create client: %w", err)
	}
	return &Service{srv: srv}, nil
}

// File is the subset of Drive metadata used to pick a snapshot.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// ListFiles returns every non-trashed file in folderID, newest first.
// An empty folderID lists the drive root.
func (s *Service) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	if folderID == "" {
		folderID = "root"
	}

	var files []*File
	call := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
		OrderBy("modifiedTime desc").
		PageSize(listPageSize).
		Fields(listFields)

	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			files = append(files, &File{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				ModifiedTime: f.ModifiedTime,
				Size:         f.Size,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drive: list folder %s: %w", folderID, err)
	}
	return files, nil
}

// DownloadFile streams the raw content of an uploaded file.
func (s *Service) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	resp, err := s.srv.Files.Get(fileID).Context(ctx).Download()
	return copyBody("download", fileID, resp, err, w)
}

// ExportFile converts a native Google document, such as a Sheet, to mimeType.
func (s *Service) ExportFile(ctx context.Context, fileID, mimeType string, w io.Writer) error {
	resp, err := s.srv.Files.Export(fileID, mimeType).Context(ctx).Download()
	return copyBody("export", fileID, resp, err, w)
}

func copyBody(op, fileID string, resp *http.Response, err error, w io.Writer) error {
	if err != nil {
		return fmt.Errorf("drive: %s %s: %w", op, fileID, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("drive: read %s: %w", fileID, err)
	}
	return nil
}

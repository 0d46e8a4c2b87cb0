package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveSource downloads bibliography documents from a Google Drive folder
// into a local directory so the normal extraction pipeline can run on them.
type DriveSource struct {
	svc *drive.Service
}

// NewDriveSource builds a Drive client from OAuth2 credentials and a saved
// token file (the token must have been obtained out of band).
func NewDriveSource(ctx context.Context, credsFile, tokenFile string) (*DriveSource, error) {
	creds, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(creds, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	svc, err := drive.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return &DriveSource{svc: svc}, nil
}

// Download fetches every PDF in folderID into destDir and returns local paths.
func (d *DriveSource) Download(ctx context.Context, folderID, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("'%s' in parents and mimeType = 'application/pdf' and trashed = false", folderID)
	var paths []string
	pageToken := ""
	for {
		call := d.svc.Files.List().Q(query).Fields("nextPageToken, files(id, name)").Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing drive folder: %w", err)
		}
		for _, f := range list.Files {
			path := filepath.Join(destDir, f.Name)
			if err := d.downloadFile(ctx, f.Id, path); err != nil {
				log.Println("skip drive file:", f.Name, "err:", err)
				continue
			}
			paths = append(paths, path)
		}
		pageToken = list.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return paths, nil
}

func (d *DriveSource) downloadFile(ctx context.Context, fileID, dest string) error {
	resp, err := d.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	return tok, json.NewDecoder(f).Decode(tok)
}

package filestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Drive stores attachments in a Google Drive folder. References are Drive
// file IDs.
type Drive struct {
	svc      *drive.Service
	folderID string
}

// NewDrive builds the Drive-backed store. Uploads land in folderID.
func NewDrive(ctx context.Context, credentialsFile, folderID string) (*Drive, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	return &Drive{svc: svc, folderID: folderID}, nil
}

func (d *Drive) Store(ctx context.Context, content []byte, name string) (string, error) {
	meta := &drive.File{
		Name:    name,
		Parents: []string{d.folderID},
	}
	f, err := d.svc.Files.Create(meta).
		Media(bytes.NewReader(content)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return f.Id, nil
}

func (d *Drive) Move(ctx context.Context, ref, targetFolder string) error {
	// Drive needs the current parents to detach from.
	f, err := d.svc.Files.Get(ref).Fields("parents").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("resolve parents of %s: %w", ref, err)
	}
	_, err = d.svc.Files.Update(ref, nil).
		AddParents(targetFolder).
		RemoveParents(strings.Join(f.Parents, ",")).
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("move %s: %w", ref, err)
	}
	return nil
}

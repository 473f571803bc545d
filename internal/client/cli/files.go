package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mycloud/internal/client/clipboard"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/client/services"
)

// fileCommand revalidates the session and resolves the storage being viewed.
func (a *App) fileCommand(ctx context.Context) (int64, error) {
	owner, err := a.currentOwner()
	if err != nil {
		return 0, err
	}
	if err := a.ensureSession(ctx); err != nil {
		return 0, err
	}
	return owner, nil
}

// List prints the files of the current storage view.
func (a *App) List(ctx context.Context) error {
	owner, err := a.fileCommand(ctx)
	if err != nil {
		return err
	}

	files, err := a.files.List(ctx, owner)
	if err != nil {
		return err
	}
	writeFiles(a.out, files)
	return nil
}

// Upload handles "upload <path> [comment]". Without a comment on the command
// line the user is prompted for one.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("upload <path> [comment]")
	}
	owner, err := a.fileCommand(ctx)
	if err != nil {
		return err
	}

	comment := strings.Join(args[1:], " ")
	if comment == "" {
		if comment, err = getSimpleText(a.reader, "Enter comment", a.out); err != nil {
			return err
		}
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	files, err := a.files.Upload(ctx, owner, models.UploadRequest{
		Name:    filepath.Base(args[0]),
		Content: f,
		Comment: comment,
	})
	if err != nil {
		return err
	}

	printSuccess("Uploaded " + filepath.Base(args[0]))
	writeFiles(a.out, files)
	return nil
}

// Rename handles "rename <id> <new name>".
func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("rename <file id> <new name>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	owner, err := a.fileCommand(ctx)
	if err != nil {
		return err
	}

	f, err := a.files.Rename(ctx, owner, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Renamed %d to %s", f.ID, f.OriginalName))
	return nil
}

// Delete handles "delete <id>".
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <file id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	owner, err := a.fileCommand(ctx)
	if err != nil {
		return err
	}

	if err := a.files.Delete(ctx, owner, id); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Deleted %d", id))
	return nil
}

// Download handles "download <id>" and saves the file to the configured sink.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("download <file id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	owner, err := a.fileCommand(ctx)
	if err != nil {
		return err
	}

	d, err := a.files.Download(ctx, owner, id)
	if err != nil {
		return err
	}

	loc, err := a.save(ctx, d)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Saved %s to %s (last download: %s)", d.Filename, loc, services.FormatDate(d.LastDownloadDate)))
	return nil
}

// View handles "view <id>". The file is fetched through the inline view
// endpoint, which leaves the download date alone.
func (a *App) View(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("view <file id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	owner, err := a.fileCommand(ctx)
	if err != nil {
		return err
	}

	d, err := a.files.View(ctx, owner, id)
	if err != nil {
		return err
	}

	loc, err := a.save(ctx, d)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Opened %s at %s", d.Filename, loc))
	return nil
}

// Link handles "link <id>": creates a share link and hands it to the user.
func (a *App) Link(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("link <file id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	owner, err := a.fileCommand(ctx)
	if err != nil {
		return err
	}

	link, err := a.files.CreateDownloadLink(ctx, owner, id)
	if err != nil {
		return err
	}

	m, err := a.links.Deliver(ctx, link.URL)
	if err != nil {
		return err
	}
	if m == clipboard.MethodClipboard {
		printSuccess("Link copied to clipboard")
	}
	return nil
}

// Fetch handles "fetch <share link>". No session is needed.
func (a *App) Fetch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("fetch <share link>")
	}

	d, err := a.files.FetchShared(ctx, args[0])
	if err != nil {
		return err
	}

	loc, err := a.save(ctx, d)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Saved %s to %s", d.Filename, loc))
	return nil
}

func (a *App) save(ctx context.Context, d *models.Download) (string, error) {
	defer d.Body.Close()

	loc, err := a.sink.Save(ctx, d.Filename, d.Body)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", d.Filename, err)
	}
	return loc, nil
}

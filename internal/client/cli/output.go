package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/mycloud/internal/client/apierr"
	"github.com/dmitrijs2005/mycloud/internal/client/models"
	"github.com/dmitrijs2005/mycloud/internal/client/services"
	"github.com/fatih/color"
)

var errUsage = errors.New("usage")

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printSuccess(msg string) {
	printlnFn(color.GreenString(msg))
}

// printError renders err in red. Auth failures get a hint.
func printError(err error) {
	msg := err.Error()
	if errors.Is(err, apierr.ErrAuth) {
		msg += " (try 'login')"
	}
	printlnFn(color.RedString("Error: %s", msg))
}

func writeFiles(w io.Writer, files []models.FileResource) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tUPLOADED\tLAST DOWNLOAD\tCOMMENT")
	for _, f := range files {
		uploaded := f.UploadDate
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.OriginalName, services.FormatSize(f.Size),
			services.FormatDate(&uploaded), services.FormatDate(f.LastDownloadDate), f.Comment)
	}
	_ = tw.Flush()
}

func writeUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tFULL NAME\tEMAIL\tROLE\tFILES\tSTORED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			u.ID, u.Username, u.Fullname, u.Email, u.Role, len(u.Storages), services.FormatSize(u.StorageSize()))
	}
	_ = tw.Flush()
}

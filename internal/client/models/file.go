package models

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// FileResource is a file record owned by one account. The remote service
// assigns ID; the client never invents one.
type FileResource struct {
	ID               int64      `json:"id_file"`
	OwnerID          int64      `json:"id_user"`
	OriginalName     string     `json:"original_name"`
	NewName          string     `json:"new_name,omitempty"`
	Comment          string     `json:"comment"`
	Size             int64      `json:"size"`
	UploadDate       time.Time  `json:"upload_date"`
	LastDownloadDate *time.Time `json:"last_download_date"`
}

// UnmarshalJSON reads upload_date and last_download_date with ParseTimestamp,
// so offset-less server timestamps decode as UTC. A null or empty
// last_download_date leaves LastDownloadDate nil.
func (f *FileResource) UnmarshalJSON(data []byte) error {
	type plain FileResource
	aux := struct {
		*plain
		UploadDate       string  `json:"upload_date"`
		LastDownloadDate *string `json:"last_download_date"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	f.UploadDate = time.Time{}
	if strings.TrimSpace(aux.UploadDate) != "" {
		t, err := ParseTimestamp(aux.UploadDate)
		if err != nil {
			return fmt.Errorf("upload_date: %w", err)
		}
		f.UploadDate = t
	}

	f.LastDownloadDate = nil
	if aux.LastDownloadDate != nil && strings.TrimSpace(*aux.LastDownloadDate) != "" {
		t, err := ParseTimestamp(*aux.LastDownloadDate)
		if err != nil {
			return fmt.Errorf("last_download_date: %w", err)
		}
		f.LastDownloadDate = &t
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseTimestamp accepts ISO 8601 timestamps with or without an offset.
// Offset-less values are read as UTC.
func ParseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", v)
}

// ShareLink is a public download URL for one file. It is never persisted.
type ShareLink struct {
	FileID int64
	URL    string `json:"link"`
}

// Download is an open file body together with the metadata the service
// reported. The caller must close Body.
type Download struct {
	Body             io.ReadCloser
	Filename         string
	LastDownloadDate *time.Time
}

// UploadRequest describes a file to upload. Comment is required.
type UploadRequest struct {
	Name    string
	Content io.Reader
	Comment string
}

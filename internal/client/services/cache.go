package services

import (
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/mycloud/internal/client/models"
)

// FileCache holds the last server-provided file list of each owner.
type FileCache struct {
	mu    sync.Mutex
	files map[int64][]models.FileResource
}

func NewFileCache() *FileCache {
	return &FileCache{files: make(map[int64][]models.FileResource)}
}

// Replace discards the owner's list and stores files.
func (c *FileCache) Replace(owner int64, files []models.FileResource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[owner] = cloneFiles(files)
}

// Remove drops fileID from the owner's list.
func (c *FileCache) Remove(owner, fileID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[owner] = slices.DeleteFunc(c.files[owner], func(f models.FileResource) bool {
		return f.ID == fileID
	})
}

// Splice replaces the record with f's id. It reports false when the owner's
// list has no such record.
func (c *FileCache) Splice(owner int64, f models.FileResource) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.files[owner], func(x models.FileResource) bool { return x.ID == f.ID })
	if i < 0 {
		return false
	}
	f.LastDownloadDate = cloneTime(f.LastDownloadDate)
	c.files[owner][i] = f
	return true
}

// PatchDownloadDate sets only LastDownloadDate of one record and returns a
// copy of the stored value afterwards. A nil at leaves the record untouched.
func (c *FileCache) PatchDownloadDate(owner, fileID int64, at *time.Time) *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.files[owner], func(x models.FileResource) bool { return x.ID == fileID })
	if i < 0 {
		return cloneTime(at)
	}
	if at != nil {
		c.files[owner][i].LastDownloadDate = cloneTime(at)
	}
	return cloneTime(c.files[owner][i].LastDownloadDate)
}

// Snapshot returns a deep copy of the owner's list; no pointer in it is
// shared with the cache.
func (c *FileCache) Snapshot(owner int64) []models.FileResource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneFiles(c.files[owner])
}

func cloneFiles(files []models.FileResource) []models.FileResource {
	if files == nil {
		return nil
	}
	out := slices.Clone(files)
	for i := range out {
		out[i].LastDownloadDate = cloneTime(out[i].LastDownloadDate)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

package export

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/mycloud/internal/client/config"
)

// fallbackName is used when the server sends a name that reduces to nothing.
const fallbackName = "download"

// Sink persists a downloaded stream under name and reports where it went.
type Sink interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// New builds the sink selected by cfg.DownloadTarget.
func New(ctx context.Context, cfg *config.Config) (Sink, error) {
	switch cfg.DownloadTarget {
	case "", config.TargetLocal:
		return NewLocalSink(cfg.DownloadDir), nil
	case config.TargetS3:
		return NewS3Sink(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown download target %q", cfg.DownloadTarget)
	}
}

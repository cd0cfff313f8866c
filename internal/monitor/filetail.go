package monitor

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/nxadm/tail"

	"github.com/lookuply/infrastructure/internal/errors"
	"github.com/lookuply/infrastructure/internal/logger"
)

// fileRetryInterval paces reattempts when a log file is missing or the tail
// dies. Files appear and rotate at rotation cadence, so a flat interval is
// enough here; streams are the ones that need exponential backoff.
const fileRetryInterval = 2 * time.Second

// FileSource follows a log file on disk, surviving rotation. Rotation is
// handled by reopening the path when the inode changes; a missing file is a
// normal condition and keeps the source in Unavailable until it appears.
type FileSource struct {
	name      string
	path      string
	fromStart bool
	sink      *sink
	health    *health
	log       logger.Logger
}

// NewFileSource builds a source tailing path. With fromStart the first open
// reads the whole existing file; otherwise only lines written after startup
// are seen.
func NewFileSource(name, path string, fromStart bool, parser Parser, agg *Aggregator, log logger.Logger) *FileSource {
	return &FileSource{
		name:      name,
		path:      path,
		fromStart: fromStart,
		sink:      newSink(name, parser, agg),
		health:    newHealth(name, agg),
		log:       log,
	}
}

func (f *FileSource) Name() string { return f.name }

// Run tails the file until ctx is cancelled.
func (f *FileSource) Run(ctx context.Context) {
	first := true
	for {
		err := f.follow(ctx, first)
		first = false
		if ctx.Err() != nil {
			return
		}
		f.log.Debug("tail %s ended: %v", f.name, err)
		f.health.Down(ctx, err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(fileRetryInterval):
		}
		f.health.Retrying(ctx)
	}
}

func (f *FileSource) follow(ctx context.Context, first bool) error {
	// tail waits silently for a missing file; stat first so absence shows up
	// as Unavailable instead of a forever-Active source with no lines.
	if _, err := os.Stat(f.path); err != nil {
		return errors.WrapWithCode(err, errors.ErrSource,
			"log file unavailable: "+f.path,
			"check the source location in monitor.yaml")
	}

	cfg := tail.Config{
		Follow: true,
		ReOpen: true,
		Poll:   true,
		Logger: tail.DiscardingLogger,
	}
	if !(first && f.fromStart) {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(f.path, cfg)
	if err != nil {
		return err
	}
	defer func() {
		t.Kill(nil)
		t.Cleanup()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				return line.Err
			}
			f.health.Up(ctx)
			f.sink.Line(ctx, line.Text)
		}
	}
}

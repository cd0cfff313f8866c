package monitor

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/lookuply/infrastructure/internal/logger"
)

const (
	streamInitialBackoff = time.Second
	streamMaxBackoff     = 30 * time.Second
	// A stream that survives this long counts as stable and resets its
	// reconnect backoff.
	streamStableAfter = time.Minute
)

// StreamSource follows a docker container's log stream. The container not
// existing or the docker daemon being down is a normal condition: the source
// goes Unavailable and keeps retrying with exponential backoff forever.
type StreamSource struct {
	name      string
	container string
	sink      *sink
	health    *health
	log       logger.Logger

	initialBackoff time.Duration
	maxBackoff     time.Duration

	// runStream is swapped out in tests to avoid spawning docker.
	runStream func(ctx context.Context, onLine func(string)) error
}

// NewStreamSource builds a source that tails `docker logs -f --tail 0` for
// the named container.
func NewStreamSource(name, container string, parser Parser, agg *Aggregator, log logger.Logger) *StreamSource {
	s := &StreamSource{
		name:           name,
		container:      container,
		sink:           newSink(name, parser, agg),
		health:         newHealth(name, agg),
		log:            log,
		initialBackoff: streamInitialBackoff,
		maxBackoff:     streamMaxBackoff,
	}
	s.runStream = s.dockerLogs
	return s
}

func (s *StreamSource) Name() string { return s.name }

// Run follows the stream until ctx is cancelled, reconnecting on failure.
func (s *StreamSource) Run(ctx context.Context) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.initialBackoff
	bo.MaxInterval = s.maxBackoff
	bo.MaxElapsedTime = 0 // retry forever
	bo.Reset()

	for {
		started := time.Now()
		err := s.runStream(ctx, func(line string) {
			s.health.Up(ctx)
			s.sink.Line(ctx, line)
		})
		if ctx.Err() != nil {
			return
		}
		s.log.Debug("stream %s ended: %v", s.name, err)
		s.health.Down(ctx, err)

		if time.Since(started) >= streamStableAfter {
			bo.Reset()
		}
		wait := bo.NextBackOff()
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		s.health.Retrying(ctx)
	}
}

// dockerLogs spawns docker and feeds each line to onLine. Both stdout and
// stderr are followed since services log to either. Returns when the process
// exits or ctx is cancelled.
func (s *StreamSource) dockerLogs(ctx context.Context, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, "docker", "logs", "-f", "--tail", "0", s.container)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return err
	}
	go func() {
		pw.CloseWithError(cmd.Wait())
	}()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

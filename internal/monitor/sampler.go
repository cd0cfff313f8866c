package monitor

import (
	"context"
	"time"

	"github.com/mackerelio/go-osstat/cpu"
	"github.com/mackerelio/go-osstat/memory"
	"golang.org/x/sys/unix"

	"github.com/lookuply/infrastructure/internal/logger"
)

// ResourceSampler reads host CPU, memory, and disk usage on a fixed interval.
// CPU percent needs two readings, so the first sample reports 0% CPU and the
// real figure appears one interval later.
type ResourceSampler struct {
	interval time.Duration
	mount    string
	agg      *Aggregator
	log      logger.Logger

	prev *cpu.Stats
	last ResourceSnapshot

	// swapped out in tests
	readCPU  func() (*cpu.Stats, error)
	readMem  func() (*memory.Stats, error)
	readDisk func(path string) (used, total uint64, err error)
}

// NewResourceSampler builds a sampler reporting disk usage for mount.
func NewResourceSampler(interval time.Duration, mount string, agg *Aggregator, log logger.Logger) *ResourceSampler {
	return &ResourceSampler{
		interval: interval,
		mount:    mount,
		agg:      agg,
		log:      log,
		readCPU:  cpu.Get,
		readMem:  memory.Get,
		readDisk: statfs,
	}
}

// Run samples until ctx is cancelled. The first sample fires immediately.
func (s *ResourceSampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sample(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample(ctx)
		}
	}
}

// sample takes one reading. A failed probe keeps that metric's previous
// figures and marks the snapshot stale; the panel never drops to zero just
// because one read misfired.
func (s *ResourceSampler) sample(ctx context.Context) {
	snap := ResourceSnapshot{Time: time.Now()}

	cur, err := s.readCPU()
	if err != nil {
		s.log.Debug("cpu sample failed: %v", err)
		snap.CPUPercent = s.last.CPUPercent
		snap.Stale = true
	} else {
		snap.CPUPercent = s.cpuPercent(cur)
		s.prev = cur
	}

	if mem, err := s.readMem(); err != nil {
		s.log.Debug("memory sample failed: %v", err)
		snap.MemUsed = s.last.MemUsed
		snap.MemTotal = s.last.MemTotal
		snap.Stale = true
	} else {
		snap.MemUsed = mem.Used
		snap.MemTotal = mem.Total
	}

	if used, total, err := s.readDisk(s.mount); err != nil {
		s.log.Debug("disk sample failed for %s: %v", s.mount, err)
		snap.DiskUsed = s.last.DiskUsed
		snap.DiskTotal = s.last.DiskTotal
		snap.Stale = true
	} else {
		snap.DiskUsed = used
		snap.DiskTotal = total
	}

	s.last = snap
	s.agg.RecordResource(ctx, snap)
}

// cpuPercent computes busy time over the delta between two readings.
func (s *ResourceSampler) cpuPercent(cur *cpu.Stats) float64 {
	if s.prev == nil {
		return 0
	}
	total := float64(cur.Total - s.prev.Total)
	if total <= 0 {
		return 0
	}
	idle := float64(cur.Idle - s.prev.Idle)
	pct := (total - idle) / total * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// statfs reads used and total bytes for the filesystem holding path.
func statfs(path string) (uint64, uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, err
	}
	total := st.Blocks * uint64(st.Bsize)
	free := st.Bfree * uint64(st.Bsize)
	return total - free, total, nil
}

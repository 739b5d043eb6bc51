package snapshot

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blogserver/internal/storage"
)

// Flusher is the part of the in-memory store the snapshotter needs: write the
// snapshot file and tell where it lives.
type Flusher interface {
	Flush() error
	Path() string
}

// Config controls snapshot cadence and the optional off-host mirror.
type Config struct {
	Interval time.Duration
	Bucket   string
	// KeyPrefix namespaces mirrored snapshots within the bucket.
	KeyPrefix string
	// Keep bounds how many mirrored snapshots are retained; older ones are pruned.
	Keep   int
	Logger *logrus.Logger
}

// Snapshotter periodically flushes the in-memory store to its snapshot file and,
// when object storage is configured, mirrors the file off host.
type Snapshotter struct {
	cfg     Config
	store   Flusher
	storage storage.Service

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a snapshotter. storageSvc may be nil to disable mirroring.
func New(cfg Config, store Flusher, storageSvc storage.Service) *Snapshotter {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Keep <= 0 {
		cfg.Keep = 10
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Snapshotter{
		cfg:     cfg,
		store:   store,
		storage: storageSvc,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start runs the flush loop until Shutdown is called or ctx is cancelled.
func (s *Snapshotter) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.FlushOnce(ctx); err != nil {
					s.cfg.Logger.Warnf("snapshot flush: %v", err)
				}
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown stops the loop and performs a final flush.
func (s *Snapshotter) Shutdown(ctx context.Context) {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done

	if err := s.FlushOnce(ctx); err != nil {
		s.cfg.Logger.Warnf("final snapshot flush: %v", err)
	}
}

// FlushOnce writes the snapshot file and mirrors it when configured.
func (s *Snapshotter) FlushOnce(ctx context.Context) error {
	if err := s.store.Flush(); err != nil {
		return err
	}
	if s.storage == nil || s.cfg.Bucket == "" {
		return nil
	}

	key := path.Join(s.cfg.KeyPrefix, fmt.Sprintf("blog-%s-%s.json",
		time.Now().UTC().Format("20060102T150405"), uuid.NewString()))
	location, err := s.storage.UploadFile(ctx, s.store.Path(), storage.UploadOptions{
		Bucket: s.cfg.Bucket,
		Key:    key,
	})
	if err != nil {
		return fmt.Errorf("mirror snapshot: %w", err)
	}
	s.cfg.Logger.Infof("mirrored snapshot to %s", location)

	if err := s.prune(ctx); err != nil {
		s.cfg.Logger.Warnf("prune mirrored snapshots: %v", err)
	}
	return nil
}

// prune deletes the oldest mirrored snapshots beyond the retention bound.
func (s *Snapshotter) prune(ctx context.Context) error {
	objects, err := s.storage.ListObjects(ctx, s.cfg.Bucket, s.cfg.KeyPrefix)
	if err != nil {
		return err
	}
	if len(objects) <= s.cfg.Keep {
		return nil
	}

	sort.Slice(objects, func(i, j int) bool {
		ti, tj := objects[i].LastModified, objects[j].LastModified
		switch {
		case ti == nil:
			return true
		case tj == nil:
			return false
		default:
			return ti.Before(*tj)
		}
	})

	var keys []string
	for _, obj := range objects[:len(objects)-s.cfg.Keep] {
		keys = append(keys, obj.Key)
	}
	return s.storage.DeleteObjects(ctx, s.cfg.Bucket, keys)
}

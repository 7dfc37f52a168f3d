package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meghashyamc/whichpackage/db/kvdb"
	"github.com/meghashyamc/whichpackage/logger"
)

// ViewRefresher is the store capability this service needs: a full,
// transactional rebuild of the search view.
type ViewRefresher interface {
	RefreshSearchView(ctx context.Context) error
}

// MetadataStore records refresh request statuses and the last successful
// refresh time.
type MetadataStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
}

const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

const maxRefreshTime = 10 * time.Minute

var ErrAlreadyRunning = errors.New("refresh already in progress")

type Service struct {
	logger        logger.Logger
	db            ViewRefresher
	metadataStore MetadataStore
	refreshC      chan refreshRequest
}

type refreshRequest struct {
	requestID string
}

// New starts the single background worker that serializes refreshes. The
// worker also rebuilds the view on a fixed interval, so the view converges
// even when nobody triggers a refresh explicitly.
func New(ctx context.Context, logger logger.Logger, db ViewRefresher, metadataStore MetadataStore, interval time.Duration) *Service {
	refreshService := &Service{
		logger:        logger,
		db:            db,
		metadataStore: metadataStore,
		refreshC:      make(chan refreshRequest),
	}

	go refreshService.run(ctx, interval)
	return refreshService
}

// Trigger enqueues a view rebuild without blocking. Only one refresh runs
// at a time; a second trigger while one is running is rejected.
func (s *Service) Trigger(requestID string) error {
	select {
	case s.refreshC <- refreshRequest{requestID: requestID}:
		return nil
	default:
		s.logger.Warn("request to refresh while a refresh is already in progress")
		return ErrAlreadyRunning
	}
}

// GetStatus retrieves the status of a refresh request.
func (s *Service) GetStatus(requestID string) (string, error) {
	status, err := s.metadataStore.Get(kvdb.RequestsBucket, requestID)
	if err != nil {
		return "", fmt.Errorf("request not found: %w", err)
	}
	return status, nil
}

// LastRefreshedAt returns when the view was last rebuilt successfully.
func (s *Service) LastRefreshedAt() (time.Time, error) {
	value, err := s.metadataStore.Get(kvdb.RefreshBucket, kvdb.LastRefreshKey)
	if err != nil {
		return time.Time{}, err
	}

	refreshedAt, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid refresh timestamp: %w", err)
	}
	return refreshedAt, nil
}

func (s *Service) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case req := <-s.refreshC:
			s.refresh(ctx, req.requestID)
		case <-ticker.C:
			s.refresh(ctx, "")
		case <-ctx.Done():
			s.logger.Info("refresh service stopped", "reason", ctx.Err())
			return
		}
	}
}

func (s *Service) refresh(ctx context.Context, requestID string) {
	refreshCtx, cancel := context.WithTimeout(ctx, maxRefreshTime)
	defer cancel()

	s.setRequestStatus(requestID, StatusRunning)

	start := time.Now()
	if err := s.db.RefreshSearchView(refreshCtx); err != nil {
		s.logger.Error("failed to refresh search view", "request_id", requestID, "err", err.Error())
		s.setRequestStatus(requestID, StatusFailed)
		return
	}

	s.setRequestStatus(requestID, StatusComplete)
	if err := s.metadataStore.Set(kvdb.RefreshBucket, kvdb.LastRefreshKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		s.logger.Warn("failed to record last refresh time", "err", err.Error())
	}

	s.logger.Info("refreshed search view", "request_id", requestID, "duration", time.Since(start).String())
}

func (s *Service) setRequestStatus(requestID string, status string) {
	if requestID == "" {
		return
	}
	if err := s.metadataStore.Set(kvdb.RequestsBucket, requestID, status); err != nil {
		s.logger.Warn("failed to record refresh status", "request_id", requestID, "err", err.Error())
	}
}

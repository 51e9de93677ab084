package upload

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/messhub/messhub-api/internal/pkg/imaging"
	"github.com/messhub/messhub-api/internal/pkg/storage"
)

// Worker processes pending uploads: it normalizes the original and writes a
// thumbnail next to it. It polls the database and additionally wakes up on
// the Redis channel when one is configured.
type Worker struct {
	repo      *Repository
	store     storage.Storage
	redis     *redis.Client
	processor *imaging.Processor
	interval  time.Duration
}

func NewWorker(repo *Repository, store storage.Storage, redisClient *redis.Client, processor *imaging.Processor, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Worker{
		repo:      repo,
		store:     store,
		redis:     redisClient,
		processor: processor,
		interval:  interval,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	wake := make(chan struct{}, 1)
	if w.redis != nil {
		go w.subscribeWake(ctx, wake)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Msg("image worker started")
	for {
		w.drain(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("image worker stopped")
			return
		case <-ticker.C:
		case <-wake:
		}
	}
}

func (w *Worker) subscribeWake(ctx context.Context, wake chan<- struct{}) {
	pubsub := w.redis.Subscribe(ctx, WakeChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}

// drain processes claimed uploads until none are left.
func (w *Worker) drain(ctx context.Context) {
	for {
		u, err := w.repo.ClaimPending(ctx)
		if errors.Is(err, ErrUploadNotFound) {
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to claim upload")
			return
		}
		w.process(ctx, u)
	}
}

func (w *Worker) process(ctx context.Context, u *Upload) {
	reader, err := w.store.Get(ctx, u.ObjectKey)
	if err != nil {
		w.fail(ctx, u, "fetch original: "+err.Error())
		return
	}
	defer reader.Close()

	img, err := w.processor.Process(reader)
	if err != nil {
		w.fail(ctx, u, "process image: "+err.Error())
		return
	}

	if err := w.store.Put(ctx, u.ObjectKey, bytes.NewReader(img.Original), img.ContentType); err != nil {
		w.fail(ctx, u, "store normalized original: "+err.Error())
		return
	}
	thumbKey := imaging.ThumbKey(u.ObjectKey)
	if err := w.store.Put(ctx, thumbKey, bytes.NewReader(img.Thumbnail), img.ContentType); err != nil {
		w.fail(ctx, u, "store thumbnail: "+err.Error())
		return
	}

	if err := w.repo.MarkProcessed(ctx, u.ID, img.Width, img.Height); err != nil {
		log.Error().Err(err).Str("upload_id", u.ID.String()).Msg("failed to mark upload processed")
		return
	}
	log.Info().
		Str("upload_id", u.ID.String()).
		Str("thumb_key", thumbKey).
		Int("width", img.Width).
		Int("height", img.Height).
		Msg("upload processed")
}

func (w *Worker) fail(ctx context.Context, u *Upload, reason string) {
	log.Error().Str("upload_id", u.ID.String()).Str("reason", reason).Msg("upload processing failed")
	if err := w.repo.MarkFailed(ctx, u.ID, reason); err != nil {
		log.Error().Err(err).Str("upload_id", u.ID.String()).Msg("failed to mark upload failed")
	}
}

package video

import (
	"context"
	"fmt"

	"github.com/narwhalmedia/catalog/internal/domain/events"
	"github.com/narwhalmedia/catalog/internal/domain/video"
	"github.com/narwhalmedia/catalog/pkg/interfaces"
)

// UploadMedia stores a file into any of the five media slots.
func (s *ApplicationService) UploadMedia(ctx context.Context, cmd UploadMediaCommand) (Output, error) {
	field, err := video.ParseMediaField(cmd.Field)
	if err != nil {
		return Output{}, err
	}
	if field.IsImage() {
		return s.UploadImageMedia(ctx, cmd)
	}
	return s.UploadAudioVideoMedia(ctx, cmd)
}

// UploadImageMedia stores a banner, thumbnail or thumbnail_half.
func (s *ApplicationService) UploadImageMedia(ctx context.Context, cmd UploadMediaCommand) (Output, error) {
	field, err := video.ParseMediaField(cmd.Field)
	if err != nil {
		return Output{}, err
	}
	if !field.IsImage() {
		return Output{}, fmt.Errorf("%w: %q is not an image field", video.ErrInvalidMediaField, field)
	}

	v, _, err := s.replaceMedia(ctx, cmd, field, func(v *video.Video, key string) error {
		return v.ReplaceImage(field, video.NewImageMedia(cmd.File.Name, key))
	})
	if err != nil {
		return Output{}, err
	}
	return s.withRelations(ctx, v)
}

// UploadAudioVideoMedia stores a trailer or video, leaves it PENDING and,
// once committed, asks the encoder to process it.
func (s *ApplicationService) UploadAudioVideoMedia(ctx context.Context, cmd UploadMediaCommand) (Output, error) {
	field, err := video.ParseAudioVideoField(cmd.Field)
	if err != nil {
		return Output{}, err
	}

	v, committed, err := s.replaceMedia(ctx, cmd, field, func(v *video.Video, key string) error {
		return v.ReplaceAudioVideo(field, video.NewAudioVideoMedia(cmd.File.Name, key))
	})
	if err != nil {
		return Output{}, err
	}

	s.publishAfterCommit(ctx, committed)
	return s.withRelations(ctx, v)
}

// replaceMedia streams the file to storage before opening the transaction
// that points the slot at it. The blob the slot held before is deleted once
// the transaction commits; a blob stored for a failed transaction is
// deleted right away.
func (s *ApplicationService) replaceMedia(
	ctx context.Context,
	cmd UploadMediaCommand,
	field video.MediaField,
	replace func(v *video.Video, key string) error,
) (*video.Video, []events.DomainEvent, error) {
	if err := s.policy.Check(field, cmd.File); err != nil {
		return nil, nil, err
	}
	if _, err := s.repos.Videos.FindByID(ctx, cmd.VideoID); err != nil {
		return nil, nil, err
	}

	key := video.StorageKey(cmd.VideoID, field, cmd.File.Name)
	if err := s.storage.Store(ctx, key, cmd.File.Content, cmd.File.Size, normalizeMimeType(cmd.File.MimeType)); err != nil {
		return nil, nil, fmt.Errorf("storing %s: %w", field, err)
	}

	v, previous, committed, err := s.attachMedia(ctx, cmd, field, key, replace)
	if err != nil {
		// Same key means the slot already referenced this blob.
		if previous != key {
			s.deleteBlobs(ctx, cmd.VideoID, "failed to delete blob of failed upload", key)
		}
		return nil, nil, err
	}
	if previous != "" && previous != key {
		s.deleteBlobs(ctx, cmd.VideoID, "failed to delete replaced blob", previous)
	}

	s.logger.WithContext(ctx).Info("video media uploaded",
		interfaces.String("video_id", v.ID().String()),
		interfaces.String("field", string(field)),
		interfaces.String("key", key),
		interfaces.Int64("size", cmd.File.Size),
	)
	return v, committed, nil
}

// attachMedia points field at key in its own transaction and returns the
// key the slot held before.
func (s *ApplicationService) attachMedia(
	ctx context.Context,
	cmd UploadMediaCommand,
	field video.MediaField,
	key string,
	replace func(v *video.Video, key string) error,
) (*video.Video, string, []events.DomainEvent, error) {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return nil, "", nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := tx.Context()

	v, err := s.repos.Videos.FindByID(txCtx, cmd.VideoID)
	if err != nil {
		return nil, "", nil, err
	}
	previous := mediaKey(v, field)

	if err := replace(v, key); err != nil {
		return nil, previous, nil, err
	}
	if err := s.repos.Videos.Update(txCtx, v); err != nil {
		return nil, previous, nil, fmt.Errorf("updating video: %w", err)
	}
	committed, err := s.eventSink.Flush(txCtx, v)
	if err != nil {
		return nil, previous, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, previous, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return v, previous, committed, nil
}

func mediaKey(v *video.Video, field video.MediaField) string {
	if field.IsImage() {
		if m := v.Image(field); m != nil {
			return m.Location()
		}
		return ""
	}
	if m := v.AudioVideo(field); m != nil {
		return m.RawLocation()
	}
	return ""
}

// ProcessAudioVideoMedia applies an encoder result to a trailer or video.
// Results for a video that doesn't exist return a not found error; results
// that don't fit the media state machine return an error matched by
// video.IsMediaStateError.
func (s *ApplicationService) ProcessAudioVideoMedia(ctx context.Context, cmd ProcessAudioVideoMediaCommand) error {
	field, err := video.ParseAudioVideoField(cmd.Field)
	if err != nil {
		return err
	}
	status, err := video.ParseMediaStatus(cmd.Status)
	if err != nil {
		return err
	}
	if status == video.MediaStatusPending {
		return fmt.Errorf("%w: encoder can't report %s", video.ErrInvalidMediaStatus, status)
	}

	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := tx.Context()

	v, err := s.repos.Videos.FindByID(txCtx, cmd.VideoID)
	if err != nil {
		return err
	}

	if status == video.MediaStatusCompleted {
		err = v.CompleteMedia(field, cmd.EncodedLocation)
	} else {
		err = v.FailMedia(field)
	}
	if err != nil {
		return err
	}

	if err := s.repos.Videos.Update(txCtx, v); err != nil {
		return fmt.Errorf("updating video: %w", err)
	}
	if _, err := s.eventSink.Flush(txCtx, v); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.WithContext(ctx).Info("video media processed",
		interfaces.String("video_id", v.ID().String()),
		interfaces.String("field", string(field)),
		interfaces.String("status", string(status)),
		interfaces.Bool("published", v.IsPublished()),
	)
	return nil
}

package video

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/application"
	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/internal/domain/events"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
	"github.com/narwhalmedia/catalog/internal/domain/video"
	"github.com/narwhalmedia/catalog/pkg/interfaces"
	"github.com/narwhalmedia/catalog/pkg/logger"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// Repositories groups the repositories the video use cases read.
type Repositories struct {
	Videos      video.Repository
	Categories  category.Repository
	Genres      genre.Repository
	CastMembers castmember.Repository
}

// ApplicationService handles use case orchestration for videos and their media
type ApplicationService struct {
	repos      Repositories
	storage    application.Storage
	policy     UploadPolicy
	eventSink  *application.EventSink
	publisher  events.IntegrationEventPublisher
	unitOfWork application.UnitOfWork
	logger     interfaces.Logger
}

// NewApplicationService creates a new video application service
func NewApplicationService(
	repos Repositories,
	storage application.Storage,
	policy UploadPolicy,
	eventSink *application.EventSink,
	publisher events.IntegrationEventPublisher,
	unitOfWork application.UnitOfWork,
	logger interfaces.Logger,
) *ApplicationService {
	return &ApplicationService{
		repos:      repos,
		storage:    storage,
		policy:     policy,
		eventSink:  eventSink,
		publisher:  publisher,
		unitOfWork: unitOfWork,
		logger:     logger,
	}
}

func (s *ApplicationService) Create(ctx context.Context, cmd CreateCommand) (Output, error) {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := tx.Context()

	v, err := video.New(video.Props{
		Title:         cmd.Title,
		Description:   cmd.Description,
		YearLaunched:  cmd.YearLaunched,
		Duration:      cmd.Duration,
		Rating:        cmd.Rating,
		IsOpened:      cmd.IsOpened,
		CategoryIDs:   cmd.CategoryIDs,
		GenreIDs:      cmd.GenreIDs,
		CastMemberIDs: cmd.CastMemberIDs,
	})
	missing, checkErr := s.checkRelations(txCtx, cmd.CategoryIDs, cmd.GenreIDs, cmd.CastMemberIDs)
	if checkErr != nil {
		return Output{}, checkErr
	}
	if err := application.MergeValidation("video", err, missing); err != nil {
		return Output{}, err
	}

	if err := s.repos.Videos.Insert(txCtx, v); err != nil {
		return Output{}, fmt.Errorf("saving video: %w", err)
	}
	if _, err := s.eventSink.Flush(txCtx, v); err != nil {
		return Output{}, err
	}
	if err := tx.Commit(); err != nil {
		return Output{}, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.WithContext(ctx).Info("video created", interfaces.String("video_id", v.ID().String()))
	return s.withRelations(ctx, v)
}

func (s *ApplicationService) Update(ctx context.Context, cmd UpdateCommand) (Output, error) {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := tx.Context()

	v, err := s.repos.Videos.FindByID(txCtx, cmd.ID)
	if err != nil {
		return Output{}, err
	}

	p := v.Props()
	if cmd.Title != nil {
		p.Title = *cmd.Title
	}
	if cmd.Description != nil {
		p.Description = *cmd.Description
	}
	if cmd.YearLaunched != nil {
		p.YearLaunched = *cmd.YearLaunched
	}
	if cmd.Duration != nil {
		p.Duration = *cmd.Duration
	}
	if cmd.Rating != nil {
		p.Rating = *cmd.Rating
	}
	if cmd.IsOpened != nil {
		p.IsOpened = *cmd.IsOpened
	}
	if cmd.CategoryIDs != nil {
		p.CategoryIDs = cmd.CategoryIDs
	}
	if cmd.GenreIDs != nil {
		p.GenreIDs = cmd.GenreIDs
	}
	if cmd.CastMemberIDs != nil {
		p.CastMemberIDs = cmd.CastMemberIDs
	}

	domainErr := v.Update(p)
	missing, err := s.checkRelations(txCtx, cmd.CategoryIDs, cmd.GenreIDs, cmd.CastMemberIDs)
	if err != nil {
		return Output{}, err
	}
	if err := application.MergeValidation("video", domainErr, missing); err != nil {
		return Output{}, err
	}

	if err := s.repos.Videos.Update(txCtx, v); err != nil {
		return Output{}, fmt.Errorf("updating video: %w", err)
	}
	if _, err := s.eventSink.Flush(txCtx, v); err != nil {
		return Output{}, err
	}
	if err := tx.Commit(); err != nil {
		return Output{}, fmt.Errorf("commit transaction: %w", err)
	}
	return s.withRelations(ctx, v)
}

// Delete removes the video and its relation and media rows, then deletes
// the stored blobs. A blob that can't be deleted is logged and left behind.
func (s *ApplicationService) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := tx.Context()

	v, err := s.repos.Videos.FindByID(txCtx, id)
	if err != nil {
		return err
	}
	if err := s.repos.Videos.Delete(txCtx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.deleteBlobs(ctx, id, "failed to delete blob of deleted video", blobKeys(v)...)
	return nil
}

// deleteBlobs removes keys from storage, logging failures with msg.
func (s *ApplicationService) deleteBlobs(ctx context.Context, videoID uuid.UUID, msg string, keys ...string) {
	log := s.logger.WithContext(ctx)
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Warn(msg,
				interfaces.String("video_id", videoID.String()),
				interfaces.String("key", key),
				interfaces.Error(err),
			)
		}
	}
}

func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID) (Output, error) {
	v, err := s.repos.Videos.FindByID(ctx, id)
	if err != nil {
		return Output{}, err
	}
	return s.withRelations(ctx, v)
}

func (s *ApplicationService) List(ctx context.Context, q ListQuery) (ListOutput, error) {
	res, err := s.repos.Videos.Search(ctx, q.Normalize(video.SortableFields...))
	if err != nil {
		return ListOutput{}, fmt.Errorf("searching videos: %w", err)
	}
	rel, err := s.loadRelations(ctx, res.Items...)
	if err != nil {
		return ListOutput{}, err
	}
	return pagination.Map(res, func(v *video.Video) Output {
		return toOutput(v, rel)
	}), nil
}

func (s *ApplicationService) checkRelations(ctx context.Context, categoryIDs, genreIDs, castMemberIDs []uuid.UUID) ([]string, error) {
	return application.CheckRelations(ctx,
		application.RelationCheck{Entity: category.AggregateType, IDs: categoryIDs, Checker: s.repos.Categories},
		application.RelationCheck{Entity: genre.AggregateType, IDs: genreIDs, Checker: s.repos.Genres},
		application.RelationCheck{Entity: castmember.AggregateType, IDs: castMemberIDs, Checker: s.repos.CastMembers},
	)
}

func (s *ApplicationService) withRelations(ctx context.Context, v *video.Video) (Output, error) {
	rel, err := s.loadRelations(ctx, v)
	if err != nil {
		return Output{}, err
	}
	return toOutput(v, rel), nil
}

func (s *ApplicationService) loadRelations(ctx context.Context, videos ...*video.Video) (relations, error) {
	rel := relations{
		categories:  make(map[uuid.UUID]*category.Category),
		genres:      make(map[uuid.UUID]*genre.Genre),
		castMembers: make(map[uuid.UUID]*castmember.CastMember),
	}
	if len(videos) == 0 {
		return rel, nil
	}

	var categoryIDs, genreIDs, castMemberIDs []uuid.UUID
	for _, v := range videos {
		categoryIDs = append(categoryIDs, v.CategoryIDs()...)
		genreIDs = append(genreIDs, v.GenreIDs()...)
		castMemberIDs = append(castMemberIDs, v.CastMemberIDs()...)
	}

	categories, err := s.repos.Categories.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return rel, fmt.Errorf("loading categories: %w", err)
	}
	for _, c := range categories {
		rel.categories[c.ID()] = c
	}
	genres, err := s.repos.Genres.FindByIDs(ctx, genreIDs)
	if err != nil {
		return rel, fmt.Errorf("loading genres: %w", err)
	}
	for _, g := range genres {
		rel.genres[g.ID()] = g
	}
	castMembers, err := s.repos.CastMembers.FindByIDs(ctx, castMemberIDs)
	if err != nil {
		return rel, fmt.Errorf("loading cast members: %w", err)
	}
	for _, m := range castMembers {
		rel.castMembers[m.ID()] = m
	}
	return rel, nil
}

func blobKeys(v *video.Video) []string {
	var keys []string
	for _, f := range video.ImageFields {
		if m := v.Image(f); m != nil {
			keys = append(keys, m.Location())
		}
	}
	for _, f := range video.AudioVideoFields {
		if m := v.AudioVideo(f); m != nil {
			keys = append(keys, m.RawLocation())
		}
	}
	return keys
}

// publishAfterCommit turns committed domain events into integration events.
// Delivery failures are logged; the upload itself already succeeded.
func (s *ApplicationService) publishAfterCommit(ctx context.Context, committed []events.DomainEvent) {
	correlationID := logger.RequestIDFromContext(ctx)
	log := s.logger.WithContext(ctx)

	for _, e := range committed {
		replaced, ok := e.(*video.AudioMediaReplaced)
		if !ok {
			continue
		}
		integrationEvent := video.NewAudioMediaUploadedIntegrationEvent(replaced, correlationID)
		integrationEvent.MarkAsPublished()
		if err := s.publisher.PublishIntegrationEvent(ctx, integrationEvent); err != nil {
			log.Error("failed to publish integration event",
				interfaces.String("event_type", integrationEvent.EventType()),
				interfaces.String("video_id", replaced.AggregateID().String()),
				interfaces.Error(err),
			)
		}
	}
}

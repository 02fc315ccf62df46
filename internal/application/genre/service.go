package genre

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/application"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/internal/domain/genre"
	"github.com/narwhalmedia/catalog/pkg/interfaces"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// Service orchestrates genre use cases. Every category a genre refers to
// must exist.
type Service struct {
	repo         genre.Repository
	categoryRepo category.Repository
	unitOfWork   application.UnitOfWork
	logger       interfaces.Logger
}

func NewService(
	repo genre.Repository,
	categoryRepo category.Repository,
	unitOfWork application.UnitOfWork,
	logger interfaces.Logger,
) *Service {
	return &Service{
		repo:         repo,
		categoryRepo: categoryRepo,
		unitOfWork:   unitOfWork,
		logger:       logger,
	}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (Output, error) {
	isActive := true
	if cmd.IsActive != nil {
		isActive = *cmd.IsActive
	}

	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := tx.Context()

	g, err := genre.New(cmd.Name, cmd.CategoryIDs, isActive)
	missing, checkErr := s.checkCategories(txCtx, cmd.CategoryIDs)
	if checkErr != nil {
		return Output{}, checkErr
	}
	if err := application.MergeValidation("genre", err, missing); err != nil {
		return Output{}, err
	}

	if err := s.repo.Insert(txCtx, g); err != nil {
		return Output{}, fmt.Errorf("saving genre: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Output{}, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.WithContext(ctx).Info("genre created", interfaces.String("genre_id", g.ID().String()))
	return s.withCategories(ctx, g)
}

func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (Output, error) {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := tx.Context()

	g, err := s.repo.FindByID(txCtx, cmd.ID)
	if err != nil {
		return Output{}, err
	}

	var domainErr error
	if cmd.Name != nil {
		domainErr = g.ChangeName(*cmd.Name)
	}
	var missing []string
	if cmd.CategoryIDs != nil {
		domainErr = g.SyncCategoryIDs(cmd.CategoryIDs)
		if missing, err = s.checkCategories(txCtx, cmd.CategoryIDs); err != nil {
			return Output{}, err
		}
	}
	if err := application.MergeValidation("genre", domainErr, missing); err != nil {
		return Output{}, err
	}
	if cmd.IsActive != nil {
		if *cmd.IsActive {
			g.Activate()
		} else {
			g.Deactivate()
		}
	}

	if err := s.repo.Update(txCtx, g); err != nil {
		return Output{}, fmt.Errorf("updating genre: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Output{}, fmt.Errorf("commit transaction: %w", err)
	}
	return s.withCategories(ctx, g)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.Delete(tx.Context(), id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Output, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Output{}, err
	}
	return s.withCategories(ctx, g)
}

func (s *Service) List(ctx context.Context, q ListQuery) (ListOutput, error) {
	res, err := s.repo.Search(ctx, q.Normalize(genre.SortableFields...))
	if err != nil {
		return ListOutput{}, fmt.Errorf("searching genres: %w", err)
	}

	// one lookup for the categories of the whole page
	var ids []uuid.UUID
	for _, g := range res.Items {
		ids = append(ids, g.CategoryIDs()...)
	}
	categories, err := s.loadCategories(ctx, ids)
	if err != nil {
		return ListOutput{}, err
	}
	return pagination.Map(res, func(g *genre.Genre) Output {
		return toOutput(g, categories)
	}), nil
}

func (s *Service) checkCategories(ctx context.Context, ids []uuid.UUID) ([]string, error) {
	return application.CheckRelations(ctx, application.RelationCheck{
		Entity:  category.AggregateType,
		IDs:     ids,
		Checker: s.categoryRepo,
	})
}

func (s *Service) withCategories(ctx context.Context, g *genre.Genre) (Output, error) {
	categories, err := s.loadCategories(ctx, g.CategoryIDs())
	if err != nil {
		return Output{}, err
	}
	return toOutput(g, categories), nil
}

func (s *Service) loadCategories(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*category.Category, error) {
	out := make(map[uuid.UUID]*category.Category)
	if len(ids) == 0 {
		return out, nil
	}
	cs, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	for _, c := range cs {
		out[c.ID()] = c
	}
	return out, nil
}

package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/application"
	"github.com/narwhalmedia/catalog/internal/domain/category"
	"github.com/narwhalmedia/catalog/pkg/interfaces"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// Service orchestrates category use cases.
type Service struct {
	repo       category.Repository
	unitOfWork application.UnitOfWork
	logger     interfaces.Logger
}

func NewService(repo category.Repository, unitOfWork application.UnitOfWork, logger interfaces.Logger) *Service {
	return &Service{repo: repo, unitOfWork: unitOfWork, logger: logger}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (Output, error) {
	isActive := true
	if cmd.IsActive != nil {
		isActive = *cmd.IsActive
	}
	c, err := category.New(cmd.Name, cmd.Description, isActive)
	if err != nil {
		return Output{}, err
	}

	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.Insert(tx.Context(), c); err != nil {
		return Output{}, fmt.Errorf("saving category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Output{}, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.WithContext(ctx).Info("category created", interfaces.String("category_id", c.ID().String()))
	return toOutput(c), nil
}

func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (Output, error) {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	ctx = tx.Context()

	c, err := s.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return Output{}, err
	}

	if cmd.Name != nil {
		if err := c.ChangeName(*cmd.Name); err != nil {
			return Output{}, err
		}
	}
	switch {
	case cmd.ClearDescription:
		c.ChangeDescription(nil)
	case cmd.Description != nil:
		c.ChangeDescription(cmd.Description)
	}
	if cmd.IsActive != nil {
		if *cmd.IsActive {
			c.Activate()
		} else {
			c.Deactivate()
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return Output{}, fmt.Errorf("updating category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Output{}, fmt.Errorf("commit transaction: %w", err)
	}
	return toOutput(c), nil
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
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Output{}, err
	}
	return toOutput(c), nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (ListOutput, error) {
	res, err := s.repo.Search(ctx, q.Normalize(category.SortableFields...))
	if err != nil {
		return ListOutput{}, fmt.Errorf("searching categories: %w", err)
	}
	return pagination.Map(res, toOutput), nil
}

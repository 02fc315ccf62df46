package castmember

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/narwhalmedia/catalog/internal/application"
	"github.com/narwhalmedia/catalog/internal/domain/castmember"
	"github.com/narwhalmedia/catalog/pkg/interfaces"
	"github.com/narwhalmedia/catalog/pkg/pagination"
)

// Service orchestrates cast member use cases.
type Service struct {
	repo       castmember.Repository
	unitOfWork application.UnitOfWork
	logger     interfaces.Logger
}

func NewService(repo castmember.Repository, unitOfWork application.UnitOfWork, logger interfaces.Logger) *Service {
	return &Service{repo: repo, unitOfWork: unitOfWork, logger: logger}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (Output, error) {
	m, err := castmember.New(cmd.Name, cmd.Type)
	if err != nil {
		return Output{}, err
	}

	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.Insert(tx.Context(), m); err != nil {
		return Output{}, fmt.Errorf("saving cast member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Output{}, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.WithContext(ctx).Info("cast member created",
		interfaces.String("cast_member_id", m.ID().String()),
		interfaces.String("type", m.Type().String()),
	)
	return toOutput(m), nil
}

func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (Output, error) {
	tx, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	ctx = tx.Context()

	m, err := s.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return Output{}, err
	}
	if cmd.Name != nil {
		if err := m.ChangeName(*cmd.Name); err != nil {
			return Output{}, err
		}
	}
	if cmd.Type != nil {
		if err := m.ChangeType(*cmd.Type); err != nil {
			return Output{}, err
		}
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return Output{}, fmt.Errorf("updating cast member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Output{}, fmt.Errorf("commit transaction: %w", err)
	}
	return toOutput(m), nil
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
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Output{}, err
	}
	return toOutput(m), nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (ListOutput, error) {
	res, err := s.repo.Search(ctx, q.Normalize(castmember.SortableFields...))
	if err != nil {
		return ListOutput{}, fmt.Errorf("searching cast members: %w", err)
	}
	return pagination.Map(res, toOutput), nil
}

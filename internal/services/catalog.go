package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/repos"
	"github.com/swipelab/swipelab-backend/internal/types"
)

// ErrForbidden rejects catalog mutations from non-expert raters.
var ErrForbidden = errors.New("operation requires an expert or admin role")

// CatalogService manages the tasks, images and labels that classifications
// reference. Mutations are restricted to expert-like users; reads are open to
// every authenticated rater.
type CatalogService interface {
	CreateTask(ctx context.Context, actorID uuid.UUID, name, description string) (*types.Task, error)
	ListActiveTasks(ctx context.Context) ([]*types.Task, error)
	CreateImage(ctx context.Context, actorID uuid.UUID, taskID *uuid.UUID, url string) (*types.Image, error)
	ListImagesForTask(ctx context.Context, taskID uuid.UUID) ([]*types.Image, error)
	CreateLabel(ctx context.Context, actorID uuid.UUID, taskID *uuid.UUID, name string) (*types.Label, error)
	ListLabels(ctx context.Context) ([]*types.Label, error)
}

type catalogService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	taskRepo  repos.TaskRepo
	imageRepo repos.ImageRepo
	labelRepo repos.LabelRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	taskRepo repos.TaskRepo,
	imageRepo repos.ImageRepo,
	labelRepo repos.LabelRepo,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:        db,
		log:       serviceLog,
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		imageRepo: imageRepo,
		labelRepo: labelRepo,
	}
}

func (s *catalogService) CreateTask(ctx context.Context, actorID uuid.UUID, name, description string) (*types.Task, error) {
	if err := s.requireExpert(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("a task name is required")
	}

	task := &types.Task{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Active:      true,
	}
	if _, err := s.taskRepo.Create(ctx, nil, []*types.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *catalogService) ListActiveTasks(ctx context.Context) ([]*types.Task, error) {
	return s.taskRepo.GetActive(ctx, nil)
}

func (s *catalogService) CreateImage(ctx context.Context, actorID uuid.UUID, taskID *uuid.UUID, url string) (*types.Image, error) {
	if err := s.requireExpert(ctx, actorID); err != nil {
		return nil, err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("an image url is required")
	}

	image := &types.Image{
		ID:     uuid.New(),
		TaskID: taskID,
		URL:    url,
	}
	if _, err := s.imageRepo.Create(ctx, nil, []*types.Image{image}); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *catalogService) ListImagesForTask(ctx context.Context, taskID uuid.UUID) ([]*types.Image, error) {
	return s.imageRepo.GetByTaskID(ctx, nil, taskID)
}

func (s *catalogService) CreateLabel(ctx context.Context, actorID uuid.UUID, taskID *uuid.UUID, name string) (*types.Label, error) {
	if err := s.requireExpert(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("a label name is required")
	}

	label := &types.Label{
		ID:     uuid.New(),
		TaskID: taskID,
		Name:   name,
	}
	if _, err := s.labelRepo.Create(ctx, nil, []*types.Label{label}); err != nil {
		return nil, err
	}
	return label, nil
}

func (s *catalogService) ListLabels(ctx context.Context) ([]*types.Label, error) {
	return s.labelRepo.GetAll(ctx, nil)
}

func (s *catalogService) requireExpert(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return err
	}
	if !actor.IsExpertLike() {
		return ErrForbidden
	}
	return nil
}

package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
	pgrepo "github.com/Denner-Esteves/painel-approve/internal/repo/postgres"
)

var ErrInvalidPeriod = errors.New("invalid year or month")

type FolderStore interface {
	Insert(ctx context.Context, clientID int64, year int, month *int) (model.Folder, error)
	ListYears(ctx context.Context, clientID int64) ([]int, error)
	ListMonths(ctx context.Context, clientID int64, year int) ([]int, error)
}

type TaskStore interface {
	ListByClientCreatedBetween(ctx context.Context, clientID int64, from, to time.Time) ([]model.Task, error)
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]model.Task, error)
	ListCreationDates(ctx context.Context, clientID int64) ([]time.Time, error)
}

// Service answers the dashboard's browsing questions: which year and month
// buckets a client has, what sits inside one, and what the scheduling
// calendar looks like. Buckets come from two sources merged together: the
// folders operators create by hand and the periods tasks were actually
// created in.
type Service struct {
	folders FolderStore
	tasks   TaskStore
	logger  *zap.Logger
}

func NewService(folders FolderStore, tasks TaskStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		folders: folders,
		tasks:   tasks,
		logger:  logger,
	}
}

// CreateYearFolder makes the year bucket exist. Creating one that already
// exists is a success, not a conflict.
func (s *Service) CreateYearFolder(ctx context.Context, clientID int64, year int) error {
	if year < 2000 || year > 2100 {
		return ErrInvalidPeriod
	}

	_, err := s.folders.Insert(ctx, clientID, year, nil)
	if err != nil {
		if errors.Is(err, pgrepo.ErrFolderExists) {
			return nil
		}
		return fmt.Errorf("create year folder: %w", err)
	}

	s.logger.Info("folder created",
		zap.Int64("client_id", clientID),
		zap.Int("year", year))

	return nil
}

func (s *Service) CreateMonthFolder(ctx context.Context, clientID int64, year, month int) error {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return ErrInvalidPeriod
	}

	_, err := s.folders.Insert(ctx, clientID, year, &month)
	if err != nil {
		if errors.Is(err, pgrepo.ErrFolderExists) {
			return nil
		}
		return fmt.Errorf("create month folder: %w", err)
	}

	s.logger.Info("folder created",
		zap.Int64("client_id", clientID),
		zap.Int("year", year),
		zap.Int("month", month))

	return nil
}

// Years merges manual year folders with the years the client's tasks were
// created in, newest first.
func (s *Service) Years(ctx context.Context, clientID int64) ([]int, error) {
	years, err := s.folders.ListYears(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list folder years: %w", err)
	}

	dates, err := s.tasks.ListCreationDates(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list task creation dates: %w", err)
	}

	seen := make(map[int]bool, len(years))
	for _, year := range years {
		seen[year] = true
	}
	for _, date := range dates {
		seen[date.Year()] = true
	}

	return sortedDesc(seen), nil
}

// Months merges manual month folders with the months tasks were created in
// within the given year, newest first.
func (s *Service) Months(ctx context.Context, clientID int64, year int) ([]int, error) {
	if year < 2000 || year > 2100 {
		return nil, ErrInvalidPeriod
	}

	months, err := s.folders.ListMonths(ctx, clientID, year)
	if err != nil {
		return nil, fmt.Errorf("list folder months: %w", err)
	}

	dates, err := s.tasks.ListCreationDates(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list task creation dates: %w", err)
	}

	seen := make(map[int]bool, len(months))
	for _, month := range months {
		seen[month] = true
	}
	for _, date := range dates {
		if date.Year() == year {
			seen[int(date.Month())] = true
		}
	}

	return sortedDesc(seen), nil
}

// TasksByMonth lists the client's tasks created inside one month bucket.
func (s *Service) TasksByMonth(ctx context.Context, clientID int64, year, month int) ([]model.Task, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, ErrInvalidPeriod
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	tasks, err := s.tasks.ListByClientCreatedBetween(ctx, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list tasks by month: %w", err)
	}

	return tasks, nil
}

// CalendarMonth groups the month's scheduled tasks by day of month.
func (s *Service) CalendarMonth(ctx context.Context, year, month int) (map[int][]model.Task, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, ErrInvalidPeriod
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	tasks, err := s.tasks.ListScheduledBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list scheduled tasks: %w", err)
	}

	byDay := make(map[int][]model.Task)
	for _, task := range tasks {
		if task.ScheduledDate == nil {
			continue
		}
		day := task.ScheduledDate.Day()
		byDay[day] = append(byDay[day], task)
	}

	return byDay, nil
}

func sortedDesc(seen map[int]bool) []int {
	out := make([]int, 0, len(seen))
	for value := range seen {
		out = append(out, value)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

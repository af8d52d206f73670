package directory

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
	pgrepo "github.com/Denner-Esteves/painel-approve/internal/repo/postgres"
)

type folderKey struct {
	clientID int64
	year     int
	month    int // 0 means a year folder
}

type fakeFolders struct {
	nextID  int64
	folders map[folderKey]model.Folder
}

func newFakeFolders() *fakeFolders {
	return &fakeFolders{folders: make(map[folderKey]model.Folder)}
}

func (f *fakeFolders) Insert(_ context.Context, clientID int64, year int, month *int) (model.Folder, error) {
	key := folderKey{clientID: clientID, year: year}
	if month != nil {
		key.month = *month
	}
	if _, ok := f.folders[key]; ok {
		return model.Folder{}, pgrepo.ErrFolderExists
	}

	f.nextID++
	folder := model.Folder{ID: f.nextID, ClientID: clientID, Year: year, Month: month}
	f.folders[key] = folder
	return folder, nil
}

func (f *fakeFolders) ListYears(_ context.Context, clientID int64) ([]int, error) {
	seen := make(map[int]bool)
	out := []int{}
	for key := range f.folders {
		if key.clientID == clientID && key.month == 0 && !seen[key.year] {
			seen[key.year] = true
			out = append(out, key.year)
		}
	}
	return out, nil
}

func (f *fakeFolders) ListMonths(_ context.Context, clientID int64, year int) ([]int, error) {
	out := []int{}
	for key := range f.folders {
		if key.clientID == clientID && key.year == year && key.month != 0 {
			out = append(out, key.month)
		}
	}
	return out, nil
}

type fakeTasks struct {
	tasks []model.Task
}

func (f *fakeTasks) ListByClientCreatedBetween(_ context.Context, clientID int64, from, to time.Time) ([]model.Task, error) {
	out := []model.Task{}
	for _, task := range f.tasks {
		if task.Owner.ClientID != nil && *task.Owner.ClientID == clientID &&
			!task.CreatedAt.Before(from) && task.CreatedAt.Before(to) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTasks) ListScheduledBetween(_ context.Context, from, to time.Time) ([]model.Task, error) {
	out := []model.Task{}
	for _, task := range f.tasks {
		if task.ScheduledDate != nil && !task.ScheduledDate.Before(from) && task.ScheduledDate.Before(to) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTasks) ListCreationDates(_ context.Context, clientID int64) ([]time.Time, error) {
	out := []time.Time{}
	for _, task := range f.tasks {
		if task.Owner.ClientID != nil && *task.Owner.ClientID == clientID {
			out = append(out, task.CreatedAt)
		}
	}
	return out, nil
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

func taskFor(clientID int64, created time.Time) model.Task {
	return model.Task{Owner: model.OwnerRef(clientID, "Cliente"), CreatedAt: created}
}

func TestCreateFolderTwiceIsSuccess(t *testing.T) {
	svc := NewService(newFakeFolders(), &fakeTasks{}, nil)
	ctx := context.Background()

	if err := svc.CreateYearFolder(ctx, 1, 2026); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := svc.CreateYearFolder(ctx, 1, 2026); err != nil {
		t.Fatalf("duplicate create should succeed: %v", err)
	}

	if err := svc.CreateMonthFolder(ctx, 1, 2026, 9); err != nil {
		t.Fatalf("month create: %v", err)
	}
	if err := svc.CreateMonthFolder(ctx, 1, 2026, 9); err != nil {
		t.Fatalf("duplicate month create should succeed: %v", err)
	}

	if err := svc.CreateMonthFolder(ctx, 1, 2026, 13); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("month 13: got %v", err)
	}
	if err := svc.CreateYearFolder(ctx, 1, 1500); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("year 1500: got %v", err)
	}
}

func TestYearsMergesFoldersAndTasks(t *testing.T) {
	folders := newFakeFolders()
	tasks := &fakeTasks{tasks: []model.Task{
		taskFor(1, date(2024, 3, 10)),
		taskFor(1, date(2026, 8, 2)),
		taskFor(2, date(2020, 1, 1)),
	}}
	svc := NewService(folders, tasks, nil)
	ctx := context.Background()

	if err := svc.CreateYearFolder(ctx, 1, 2025); err != nil {
		t.Fatalf("create: %v", err)
	}

	years, err := svc.Years(ctx, 1)
	if err != nil {
		t.Fatalf("years: %v", err)
	}
	if want := []int{2026, 2025, 2024}; !reflect.DeepEqual(years, want) {
		t.Fatalf("years = %v, want %v", years, want)
	}
}

func TestMonthsMergesFoldersAndTasks(t *testing.T) {
	folders := newFakeFolders()
	tasks := &fakeTasks{tasks: []model.Task{
		taskFor(1, date(2026, 9, 1)),
		taskFor(1, date(2026, 2, 14)),
		taskFor(1, date(2025, 6, 1)),
	}}
	svc := NewService(folders, tasks, nil)
	ctx := context.Background()

	if err := svc.CreateMonthFolder(ctx, 1, 2026, 5); err != nil {
		t.Fatalf("create: %v", err)
	}

	months, err := svc.Months(ctx, 1, 2026)
	if err != nil {
		t.Fatalf("months: %v", err)
	}
	if want := []int{9, 5, 2}; !reflect.DeepEqual(months, want) {
		t.Fatalf("months = %v, want %v", months, want)
	}
}

func TestTasksByMonthBounds(t *testing.T) {
	tasks := &fakeTasks{tasks: []model.Task{
		taskFor(1, date(2026, 8, 31)),
		taskFor(1, date(2026, 9, 1)),
		taskFor(1, date(2026, 9, 30)),
		taskFor(1, date(2026, 10, 1)),
	}}
	svc := NewService(newFakeFolders(), tasks, nil)

	got, err := svc.TasksByMonth(context.Background(), 1, 2026, 9)
	if err != nil {
		t.Fatalf("tasks by month: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the 2 september tasks, got %d", len(got))
	}
	for _, task := range got {
		// The month window is half-open: midnight of October 1st belongs
		// to October, not September.
		if task.CreatedAt.Month() != time.September {
			t.Fatalf("task outside september: %s", task.CreatedAt)
		}
	}
}

func TestCalendarMonthGroupsByDay(t *testing.T) {
	sept5 := date(2026, 9, 5)
	sept12 := date(2026, 9, 12)
	tasks := &fakeTasks{tasks: []model.Task{
		{Title: "Reels", ScheduledDate: &sept5},
		{Title: "Carrossel", ScheduledDate: &sept5},
		{Title: "Stories", ScheduledDate: &sept12},
	}}
	svc := NewService(newFakeFolders(), tasks, nil)

	byDay, err := svc.CalendarMonth(context.Background(), 2026, 9)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(byDay[5]) != 2 || len(byDay[12]) != 1 {
		t.Fatalf("grouping: %+v", byDay)
	}
}

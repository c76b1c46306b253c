package habits

import (
	"context"
	"sort"
	"sync"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

type dayKey struct {
	habitID int64
	day     string
}

// fakeStore is an in-memory Store. Live completions of a day occupy slots
// 1..n, and inserting into an occupied slot fails the way the real unique
// index does.
type fakeStore struct {
	mu          sync.Mutex
	habits      map[int64]models.Habit
	completions map[dayKey]int
	nextID      int64

	calls      int
	inserts    int
	increments int
	removals   int

	// beforeInsert, when set, runs outside the lock before each insert.
	beforeInsert func()

	getErr       error
	countErr     error
	insertErr    error
	incrementErr error
	removeErr    error
}

func newFakeStore(habits ...models.Habit) *fakeStore {
	f := &fakeStore{
		habits:      make(map[int64]models.Habit),
		completions: make(map[dayKey]int),
	}
	for _, h := range habits {
		f.habits[h.ID] = h
		if h.ID > f.nextID {
			f.nextID = h.ID
		}
	}
	return f
}

func (f *fakeStore) seed(habitID int64, day string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completions[dayKey{habitID, day}] = n
}

func (f *fakeStore) total(habitID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.habits[habitID].TotalCompletions
}

func (f *fakeStore) GetHabit(_ context.Context, id int64) (models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.getErr != nil {
		return models.Habit{}, f.getErr
	}
	h, ok := f.habits[id]
	if !ok {
		return models.Habit{}, storage.ErrNotFound
	}
	return h, nil
}

func (f *fakeStore) CountCompletions(_ context.Context, habitID int64, day string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.completions[dayKey{habitID, day}], nil
}

func (f *fakeStore) InsertCompletion(_ context.Context, habitID int64, day string, number int) error {
	if f.beforeInsert != nil {
		f.beforeInsert()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.insertErr != nil {
		return f.insertErr
	}
	k := dayKey{habitID, day}
	if number <= f.completions[k] {
		return storage.ErrUniqueViolation
	}
	f.completions[k]++
	f.inserts++
	return nil
}

func (f *fakeStore) RemoveCompletion(_ context.Context, habitID int64, day string) (models.HabitCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.removeErr != nil {
		return models.HabitCompletion{}, f.removeErr
	}
	k := dayKey{habitID, day}
	if f.completions[k] == 0 {
		return models.HabitCompletion{}, storage.ErrNotFound
	}
	slot := f.completions[k]
	f.completions[k]--
	f.removals++
	return models.HabitCompletion{HabitID: habitID, CompletionDate: day, CompletionNumber: slot}, nil
}

func (f *fakeStore) IncrementTotalCompletions(_ context.Context, habitID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	h, ok := f.habits[habitID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	h.TotalCompletions++
	f.habits[habitID] = h
	f.increments++
	return h.TotalCompletions, nil
}

func (f *fakeStore) DecrementTotalCompletions(_ context.Context, habitID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	h, ok := f.habits[habitID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	h.TotalCompletions = max(0, h.TotalCompletions-1)
	f.habits[habitID] = h
	return h.TotalCompletions, nil
}

func (f *fakeStore) CreateHabit(_ context.Context, h models.Habit) (models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	h.ID = f.nextID
	h.TotalCompletions = 0
	f.habits[h.ID] = h
	return h, nil
}

func (f *fakeStore) UpdateHabit(_ context.Context, h models.Habit) (models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.habits[h.ID]
	if !ok {
		return models.Habit{}, storage.ErrNotFound
	}
	existing.Title = h.Title
	existing.Frequency = h.Frequency
	existing.CompletionsPerDay = h.CompletionsPerDay
	f.habits[h.ID] = existing
	return existing, nil
}

func (f *fakeStore) DeleteHabit(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.habits[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.habits, id)
	for k := range f.completions {
		if k.habitID == id {
			delete(f.completions, k)
		}
	}
	return nil
}

func (f *fakeStore) GetAllHabits(context.Context) ([]models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Habit
	for _, h := range f.habits {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) GetHabitSummaries(ctx context.Context, day string) ([]models.HabitSummary, error) {
	habits, _ := f.GetAllHabits(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.HabitSummary
	for _, h := range habits {
		out = append(out, models.HabitSummary{
			Habit:            h,
			CompletionsToday: f.completions[dayKey{h.ID, day}],
			Level:            h.TotalCompletions,
		})
	}
	return out, nil
}

func (f *fakeStore) GetCompletionCounts(_ context.Context, start, end string) ([]models.DayCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DayCount
	for k, n := range f.completions {
		if k.day >= start && k.day <= end && n > 0 {
			out = append(out, models.DayCount{HabitID: k.habitID, Day: k.day, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].HabitID < out[j].HabitID
	})
	return out, nil
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

// SaveTask is a detached save of one generation result. It completes
// exactly once; Done is closed afterwards and Result is final.
type SaveTask struct {
	ID   string      `json:"id"`
	Kind domain.Kind `json:"kind"`

	done       chan struct{}
	readingID  string
	ok         bool
	finishedAt time.Time
}

// Done is closed when the save finished, successfully or not.
func (t *SaveTask) Done() <-chan struct{} { return t.done }

// Result returns the saved reading id and whether the save succeeded.
// It is only meaningful after Done is closed.
func (t *SaveTask) Result() (readingID string, ok bool) {
	select {
	case <-t.done:
		return t.readingID, t.ok
	default:
		return "", false
	}
}

// Finished reports whether Done is closed.
func (t *SaveTask) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the task finishes or ctx is done.
func (t *SaveTask) Wait(ctx context.Context) (string, bool, error) {
	select {
	case <-t.done:
		return t.readingID, t.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// SaveTasks starts and tracks detached saves. Finished tasks stay
// queryable for Retain.
type SaveTasks struct {
	Saver   Saver
	Delay   time.Duration
	Timeout time.Duration
	Retain  time.Duration

	mu    sync.Mutex
	tasks map[string]*SaveTask
	wg    sync.WaitGroup
}

// NewSaveTasks returns a tracker that saves through saver after delay,
// bounding each save by timeout.
func NewSaveTasks(saver Saver, delay, timeout time.Duration) *SaveTasks {
	return &SaveTasks{
		Saver:   saver,
		Delay:   delay,
		Timeout: timeout,
		Retain:  10 * time.Minute,
		tasks:   make(map[string]*SaveTask),
	}
}

// Start schedules a save of result and returns immediately.
func (ts *SaveTasks) Start(userID, displayName string, result *domain.GenerationResult, opt domain.VisibilityOption) *SaveTask {
	t := &SaveTask{ID: uuid.NewString(), Kind: result.Kind, done: make(chan struct{})}

	ts.mu.Lock()
	ts.pruneLocked(time.Now())
	ts.tasks[t.ID] = t
	ts.mu.Unlock()

	ts.wg.Add(1)
	go func() {
		defer ts.wg.Done()
		defer close(t.done)

		if ts.Delay > 0 {
			time.Sleep(ts.Delay)
		}

		// Detached from the request; log through the global logger.
		ctx := log.Logger.With().Str("save_task", t.ID).Logger().WithContext(context.Background())
		if ts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, ts.Timeout)
			defer cancel()
		}

		id, ok := ts.Saver.Save(ctx, userID, displayName, result, opt)

		ts.mu.Lock()
		t.readingID, t.ok, t.finishedAt = id, ok, time.Now()
		ts.mu.Unlock()
	}()
	return t
}

// Get returns a tracked task by id.
func (ts *SaveTasks) Get(id string) (*SaveTask, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t, ok := ts.tasks[id]
	if !ok {
		return nil, ErrSaveTaskNotFound
	}
	return t, nil
}

// Wait blocks until every started task has finished or ctx is done. It is
// used during shutdown.
func (ts *SaveTasks) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		ts.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ts *SaveTasks) pruneLocked(now time.Time) {
	if ts.Retain <= 0 {
		return
	}
	for id, t := range ts.tasks {
		if !t.finishedAt.IsZero() && now.Sub(t.finishedAt) > ts.Retain {
			delete(ts.tasks, id)
		}
	}
}

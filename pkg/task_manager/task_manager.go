// Package task_manager tracks the lifecycle of the named phases of a
// discovery run (projection, DFG construction, repair, candidate
// generation, net assembly, OC-DECLARE discovery) as heartbeating,
// cancelable tasks, independent of whatever pipeline stage is actually
// running.
package task_manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// TaskStatus is a point-in-time snapshot of one tracked phase.
type TaskStatus struct {
	ID            string    `json:"id"`
	State         string    `json:"state"`
	StartedAt     time.Time `json:"started_at"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	ErrorCount    int64     `json:"error_count"`
	LastError     string    `json:"last_error,omitempty"`
}

const (
	TaskStatePending   = "pending"
	TaskStateRunning   = "running"
	TaskStateCompleted = "completed"
	TaskStateFailed    = "failed"
	TaskStateStopped   = "stopped"
)

// Manager coordinates concurrently running phases.
type Manager interface {
	// StartTask runs fn as a tracked phase under taskID.
	StartTask(ctx context.Context, taskID string, fn func(context.Context) error) error
	// StopTask cancels a running phase and waits for it to exit.
	StopTask(taskID string) error
	// Heartbeat marks a phase as still alive, resetting its timeout clock.
	Heartbeat(taskID string) error
	// GetTaskStatus reports one phase's current status.
	GetTaskStatus(taskID string) TaskStatus
	// GetAllTasks reports every tracked phase's current status.
	GetAllTasks() map[string]TaskStatus
	// Cleanup cancels every phase and stops the background eviction loop.
	Cleanup()
}

// Config controls heartbeat timeout and stale-task eviction.
type Config struct {
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	TaskTimeout       time.Duration `yaml:"task_timeout"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
}

type manager struct {
	config Config
	tasks  map[string]*task
	mutex  sync.RWMutex
	logger *logrus.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type task struct {
	ID            string
	Fn            func(context.Context) error
	State         string
	StartedAt     time.Time
	LastHeartbeat time.Time
	ErrorCount    int64
	LastError     string
	Context       context.Context
	Cancel        context.CancelFunc
	Done          chan struct{}
}

// New creates a phase tracker and starts its stale-task eviction loop.
func New(config Config, logger *logrus.Logger) Manager {
	if config.HeartbeatInterval == 0 {
		config.HeartbeatInterval = 30 * time.Second
	}
	if config.TaskTimeout == 0 {
		config.TaskTimeout = 5 * time.Minute
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = 1 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &manager{
		config: config,
		tasks:  make(map[string]*task),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.cleanupLoop()
	}()

	return m
}

func (m *manager) StartTask(ctx context.Context, taskID string, fn func(context.Context) error) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if existing, exists := m.tasks[taskID]; exists {
		if existing.State == TaskStateRunning {
			return fmt.Errorf("task %s is already running", taskID)
		}
		existing.Cancel()
		<-existing.Done
	}

	taskCtx, taskCancel := context.WithCancel(ctx)

	newTask := &task{
		ID:            taskID,
		Fn:            fn,
		State:         TaskStateRunning,
		StartedAt:     time.Now(),
		LastHeartbeat: time.Now(),
		Context:       taskCtx,
		Cancel:        taskCancel,
		Done:          make(chan struct{}),
	}

	m.tasks[taskID] = newTask
	go m.runTask(newTask)

	m.logger.WithField("task_id", taskID).Info("phase started")
	return nil
}

func (m *manager) runTask(t *task) {
	defer close(t.Done)

	defer func() {
		if r := recover(); r != nil {
			m.mutex.Lock()
			t.State = TaskStateFailed
			t.ErrorCount++
			t.LastError = fmt.Sprintf("panic: %v", r)
			m.mutex.Unlock()

			m.logger.WithFields(logrus.Fields{
				"task_id": t.ID,
				"error":   r,
			}).Error("phase panicked")
		}
	}()

	err := t.Fn(t.Context)

	m.mutex.Lock()
	if err != nil {
		t.State = TaskStateFailed
		t.ErrorCount++
		t.LastError = err.Error()
		m.mutex.Unlock()

		m.logger.WithFields(logrus.Fields{
			"task_id": t.ID,
			"error":   err,
		}).Error("phase failed")
		return
	}

	t.State = TaskStateCompleted
	t.LastError = ""
	m.mutex.Unlock()

	m.logger.WithField("task_id", t.ID).Info("phase completed")
}

func (m *manager) StopTask(taskID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	t, exists := m.tasks[taskID]
	if !exists {
		return fmt.Errorf("task %s not found", taskID)
	}
	if t.State != TaskStateRunning {
		return fmt.Errorf("task %s is not running", taskID)
	}

	t.Cancel()

	select {
	case <-t.Done:
		t.State = TaskStateStopped
		m.logger.WithField("task_id", taskID).Info("phase stopped")
	case <-time.After(10 * time.Second):
		t.State = TaskStateFailed
		t.LastError = "stop timeout"
		m.logger.WithField("task_id", taskID).Warn("phase stop timed out")
	}

	return nil
}

func (m *manager) Heartbeat(taskID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	t, exists := m.tasks[taskID]
	if !exists {
		return fmt.Errorf("task %s not found", taskID)
	}
	t.LastHeartbeat = time.Now()
	return nil
}

func (m *manager) GetTaskStatus(taskID string) TaskStatus {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	t, exists := m.tasks[taskID]
	if !exists {
		return TaskStatus{ID: taskID, State: "not_found"}
	}

	return TaskStatus{
		ID:            t.ID,
		State:         t.State,
		StartedAt:     t.StartedAt,
		LastHeartbeat: t.LastHeartbeat,
		ErrorCount:    t.ErrorCount,
		LastError:     t.LastError,
	}
}

func (m *manager) GetAllTasks() map[string]TaskStatus {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make(map[string]TaskStatus, len(m.tasks))
	for id, t := range m.tasks {
		result[id] = TaskStatus{
			ID:            t.ID,
			State:         t.State,
			StartedAt:     t.StartedAt,
			LastHeartbeat: t.LastHeartbeat,
			ErrorCount:    t.ErrorCount,
			LastError:     t.LastError,
		}
	}
	return result
}

func (m *manager) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanupTasks()
		}
	}
}

func (m *manager) cleanupTasks() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	var toDelete []string

	for id, t := range m.tasks {
		if t.State == TaskStateRunning && now.Sub(t.LastHeartbeat) > m.config.TaskTimeout {
			m.logger.WithField("task_id", id).Warn("phase timeout detected, stopping")
			t.Cancel()
			t.State = TaskStateFailed
			t.LastError = "heartbeat timeout"
		}

		if t.State != TaskStateRunning && now.Sub(t.StartedAt) > time.Hour {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		delete(m.tasks, id)
		m.logger.WithField("task_id", id).Debug("phase evicted")
	}
}

func (m *manager) Cleanup() {
	m.mutex.Lock()
	m.cancel()
	m.mutex.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("all task manager goroutines stopped cleanly")
	case <-time.After(10 * time.Second):
		m.logger.Warn("timeout waiting for task manager goroutines to stop")
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, t := range m.tasks {
		if t.State == TaskStateRunning {
			t.Cancel()
			select {
			case <-t.Done:
			case <-time.After(5 * time.Second):
				m.logger.WithField("task_id", id).Warn("phase cleanup timed out")
			}
		}
	}

	m.logger.Info("task manager cleanup completed")
}

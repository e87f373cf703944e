package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/kode4food/arran/internal/script"
	"github.com/kode4food/arran/internal/store"
	"github.com/kode4food/arran/pkg/api"
	"github.com/kode4food/arran/pkg/log"
)

type (
	// Archiver receives the final snapshot of each submitted flow
	Archiver interface {
		ArchiveFlow(
			ctx context.Context, id api.FlowID, st *api.FlowState,
			values api.Args,
		) error
	}

	// Engine is the flow session registry. It creates, looks up, and
	// removes sessions, namespaces their storage keys, and fans their
	// events out through the hub
	Engine struct {
		storage  store.Storage
		scripts  PredicateEvaluator
		archiver Archiver
		hub      *Hub
		log      *slog.Logger
		sessions map[api.FlowID]*Session
		prefix   string
		mu       sync.RWMutex
	}

	// Config assembles the engine's collaborators
	Config struct {
		Storage  store.Storage
		Archiver Archiver
		Logger   *slog.Logger
		Prefix   string
	}
)

const defaultKeyPrefix = "arran"

var (
	ErrFlowExists    = errors.New("flow already exists")
	ErrFlowNotFound  = errors.New("flow not found")
	ErrInvalidFlowID = errors.New("invalid flow ID")
)

// New creates an engine with an empty session registry
func New(cfg *Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Engine{
		storage:  cfg.Storage,
		archiver: cfg.Archiver,
		scripts:  script.NewEnv(),
		hub:      NewHub(),
		log:      logger,
		sessions: map[api.FlowID]*Session{},
		prefix:   prefix,
	}
}

// CreateFlow starts a new flow session. A missing ID is generated; a
// supplied one is sanitized and must be unique
func (e *Engine) CreateFlow(
	ctx context.Context, req *api.CreateFlowRequest,
) (*Session, error) {
	id := req.ID
	if id == "" {
		id = api.FlowID(uuid.NewString())
	} else if id = api.SanitizeID(id); id == "" {
		return nil, ErrInvalidFlowID
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.sessions[id]; ok {
		return nil, ErrFlowExists
	}

	s, err := NewSession(ctx, &SessionConfig{
		ID:      id,
		Key:     e.keyFor(id),
		Steps:   req.Steps,
		Options: req.Options,
		Values:  req.Values,
		Storage: e.storage,
		Scripts: e.scripts,
		Logger:  e.log,
	})
	if err != nil {
		return nil, err
	}
	s.emit = e.hub.Publish
	s.onSubmitted = e.archiveFlow

	e.sessions[id] = s
	e.hub.Publish(api.NewEvent(api.EventTypeFlowCreated, id, nil))
	e.log.Info("flow created", log.FlowID(id))
	return s, nil
}

// GetFlow looks up an active session by ID
func (e *Engine) GetFlow(id api.FlowID) (*Session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[id]
	if !ok {
		return nil, ErrFlowNotFound
	}
	return s, nil
}

// ListFlows returns the IDs of all active sessions, sorted
func (e *Engine) ListFlows() []api.FlowID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	res := make([]api.FlowID, 0, len(e.sessions))
	for id := range e.sessions {
		res = append(res, id)
	}
	slices.Sort(res)
	return res
}

// RemoveFlow discards a session and its persisted state
func (e *Engine) RemoveFlow(ctx context.Context, id api.FlowID) error {
	e.mu.Lock()
	s, ok := e.sessions[id]
	if ok {
		delete(e.sessions, id)
	}
	e.mu.Unlock()
	if !ok {
		return ErrFlowNotFound
	}
	s.Discard(ctx)
	e.hub.Publish(api.NewEvent(api.EventTypeFlowRemoved, id, nil))
	e.log.Info("flow removed", log.FlowID(id))
	return nil
}

// Hub returns the engine's event hub
func (e *Engine) Hub() *Hub {
	return e.hub
}

// Close shuts the event hub down
func (e *Engine) Close() {
	e.hub.Close()
}

func (e *Engine) archiveFlow(
	ctx context.Context, id api.FlowID, st *api.FlowState, values api.Args,
) {
	if e.archiver == nil {
		return
	}
	if err := e.archiver.ArchiveFlow(ctx, id, st, values); err != nil {
		e.log.Error("flow archive failed", log.FlowID(id), log.Error(err))
	}
}

func (e *Engine) keyFor(id api.FlowID) string {
	return e.prefix + ":" + string(id)
}

package usecase

import (
	"context"
	"sync"

	"creative-assigner/domain/model"
	"creative-assigner/infrastructure/logger"

	"github.com/google/uuid"
)

// ISessionUsecase keeps the live wizard sessions. Sessions are in-memory only.
type ISessionUsecase interface {
	Create(ctx context.Context, operatorID string) (*Session, error)
	Get(id, operatorID string) (*Session, error)
	Close(id, operatorID string) error
	Platforms() []model.PlatformDescriptor
	// Shutdown waits for background submissions of every session, bounded by ctx.
	Shutdown(ctx context.Context) error
}

type sessionUsecase struct {
	cfg      SessionConfig
	deps     SessionDeps
	onCreate []func(*Session)

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionUsecase(cfg SessionConfig, deps SessionDeps, onCreate ...func(*Session)) ISessionUsecase {
	if deps.Platforms == nil {
		deps.Platforms = model.DefaultPlatforms()
	}
	return &sessionUsecase{
		cfg:      cfg,
		deps:     deps,
		onCreate: onCreate,
		sessions: make(map[string]*Session),
	}
}

func (u *sessionUsecase) Create(ctx context.Context, operatorID string) (*Session, error) {
	s := newSession(uuid.NewString(), operatorID, u.cfg, u.deps)
	for _, fn := range u.onCreate {
		fn(s)
	}
	u.mu.Lock()
	u.sessions[s.ID()] = s
	n := len(u.sessions)
	u.mu.Unlock()

	logger.GetLogger().WithFields(map[string]interface{}{
		"session":  s.ID(),
		"operator": operatorID,
		"live":     n,
	}).Info("Session created")
	return s, nil
}

// Get returns the session only to the operator who created it.
func (u *sessionUsecase) Get(id, operatorID string) (*Session, error) {
	u.mu.RLock()
	s, ok := u.sessions[id]
	u.mu.RUnlock()
	if !ok || s.OperatorID() != operatorID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (u *sessionUsecase) Close(id, operatorID string) error {
	u.mu.Lock()
	s, ok := u.sessions[id]
	if !ok || s.OperatorID() != operatorID {
		u.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(u.sessions, id)
	u.mu.Unlock()

	s.Close()
	logger.GetLogger().WithField("session", id).Info("Session closed")
	return nil
}

func (u *sessionUsecase) Platforms() []model.PlatformDescriptor {
	out := make([]model.PlatformDescriptor, 0, len(u.deps.Platforms))
	for _, name := range u.deps.Platforms.Names() {
		out = append(out, u.deps.Platforms[name])
	}
	return out
}

func (u *sessionUsecase) Shutdown(ctx context.Context) error {
	u.mu.RLock()
	all := make([]*Session, 0, len(u.sessions))
	for _, s := range u.sessions {
		all = append(all, s)
	}
	u.mu.RUnlock()

	done := make(chan struct{})
	go func() {
		for _, s := range all {
			s.Wait()
			s.Close()
		}
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

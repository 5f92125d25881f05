package todoagent

import (
	"context"
	"errors"
	"io"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/todoagent/core"
	"pkt.systems/todoagent/httpapi"
	"pkt.systems/todoagent/internal/agent"
	"pkt.systems/todoagent/internal/search"
	"pkt.systems/todoagent/schema"
)

// Server composes the todo service, the agent orchestrator, and the
// HTTP/websocket surface.
type Server interface {
	Start(ctx context.Context) error
	Wait() error
	Stop(ctx context.Context) error
}

// ServerConfig configures the compositor.
type ServerConfig struct {
	Service schema.ServiceConfig
	HTTP    httpapi.Config
}

// ServerDeps captures dependencies required to build the server. Agent
// and Searcher default to the rule agent and the in-process index.
type ServerDeps struct {
	Store    core.Store
	Agent    core.Agent
	Searcher core.Searcher
	Logger   pslog.Logger
}

// New constructs a todoagent server.
func New(cfg ServerConfig, deps ServerDeps) (Server, error) {
	if deps.Store == nil {
		return nil, errors.New("store dependency is required")
	}
	normalized, err := schema.NormalizeServiceConfig(cfg.Service)
	if err != nil {
		return nil, err
	}
	cfg.Service = normalized

	service, err := core.NewService(cfg.Service, core.ServiceDeps{
		Store:  deps.Store,
		Logger: deps.Logger,
	})
	if err != nil {
		return nil, err
	}

	if deps.Agent == nil {
		deps.Agent = agent.NewRuleAgent()
	}
	if deps.Searcher == nil {
		deps.Searcher = search.NewIndex(deps.Store)
	}
	orch, err := core.NewOrchestrator(cfg.Service, core.OrchestratorDeps{
		Service:  service,
		Agent:    deps.Agent,
		Searcher: deps.Searcher,
	})
	if err != nil {
		return nil, err
	}

	return &compositeServer{
		cfg:     cfg,
		store:   deps.Store,
		httpSrv: httpapi.NewServer(cfg.HTTP, service, orch),
	}, nil
}

type compositeServer struct {
	cfg     ServerConfig
	store   core.Store
	httpSrv *httpapi.Server
	logger  pslog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	errCh   chan error
	started bool
}

func (s *compositeServer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		pslog.Ctx(ctx).Warn("server start rejected", "reason", "already started")
		return errors.New("server already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.errCh = make(chan error, 1)
	s.started = true
	s.logger = pslog.Ctx(s.ctx)
	s.mu.Unlock()

	log := s.logger
	log.Info("server start", "http_addr", s.cfg.HTTP.Addr)
	go func() {
		if err := httpapi.ListenAndServe(s.ctx, s.cfg.HTTP.Addr, s.httpSrv.Handler()); err != nil {
			log.Error("http server failed", "err", err)
			s.errCh <- err
		}
	}()
	return nil
}

func (s *compositeServer) Wait() error {
	s.mu.Lock()
	ctx := s.ctx
	errCh := s.errCh
	started := s.started
	s.mu.Unlock()
	if !started {
		return errors.New("server not started")
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			pslog.Ctx(ctx).Error("server stopped", "err", err)
			_ = s.Stop(context.Background())
			return err
		}
		return nil
	}
}

func (s *compositeServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	started := s.started
	log := s.logger
	s.mu.Unlock()
	if !started {
		return nil
	}
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	log.Info("server stop requested")
	if cancel != nil {
		cancel()
	}
	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warn("store close failed", "err", err)
		}
	}
	if ctx == nil {
		log.Info("server stop completed")
		return nil
	}
	select {
	case <-ctx.Done():
		log.Warn("server stop timed out", "err", ctx.Err())
		return ctx.Err()
	case <-s.ctx.Done():
		log.Info("server stopped")
		return nil
	}
}

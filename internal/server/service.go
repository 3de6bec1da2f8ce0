package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strings"
	"syscall"

	"github.com/danmuck/gadgetctl/internal/admin"
	"github.com/danmuck/gadgetctl/internal/config"
	"github.com/danmuck/gadgetctl/internal/registry"
	"github.com/rs/zerolog/log"
)

var ErrInvalidListenAddr = errors.New("server: invalid listen address")

// ServiceConfig configures the gadgetd standalone runtime.
type ServiceConfig struct {
	ServiceID       string
	ListenAddr      string
	AdminListenAddr string
	GadgetsFile     string
	CorsOrigins     []string
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ServiceID:       "gadgetd.local",
		ListenAddr:      "127.0.0.1:9999",
		AdminListenAddr: "",
		GadgetsFile:     "",
	}
}

// Service runs the gadget server lifecycle as a standalone process: default
// registry, optional bootstrap definitions, protocol listener, optional
// admin surface, signal-driven shutdown.
type Service struct {
	cfg      ServiceConfig
	registry *registry.Registry
	server   *Server
}

func NewService() *Service {
	return NewServiceWithConfig(DefaultServiceConfig())
}

func NewServiceWithConfig(cfg ServiceConfig) *Service {
	reg := registry.Defaults()
	return &Service{
		cfg:      cfg,
		registry: reg,
		server:   NewServer(reg),
	}
}

// Registry exposes the shared registry, mainly for the admin surface and
// tests.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Run blocks until process signal shutdown or a fatal server error.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.bootstrap(); err != nil {
		return err
	}
	return s.serve(ctx)
}

func (s *Service) bootstrap() error {
	if strings.TrimSpace(s.cfg.ListenAddr) == "" {
		return ErrInvalidListenAddr
	}
	if s.cfg.GadgetsFile == "" {
		return nil
	}

	cfg, err := config.LoadGadgetsConfig(s.cfg.GadgetsFile)
	if err != nil {
		return err
	}
	for _, def := range cfg.Gadgets {
		if err := s.registry.Install(def.Name, def.Kind, def.Initial); err != nil {
			return fmt.Errorf("server: install %q: %w", def.Name, err)
		}
		log.Info().
			Str("name", def.Name).
			Str("kind", def.Kind).
			Int("initial", def.Initial).
			Msg("gadget installed from bootstrap")
	}
	return nil
}

func (s *Service) serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	defer ln.Close()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- s.server.Serve(ln)
	}()

	adminErr := make(chan error, 1)
	if strings.TrimSpace(s.cfg.AdminListenAddr) != "" {
		adm := admin.New(s.cfg.ServiceID, s.registry, s.cfg.CorsOrigins)
		go func() {
			adminErr <- adm.Run(s.cfg.AdminListenAddr)
		}()
	}

	log.Info().
		Str("service_id", s.cfg.ServiceID).
		Str("listen_addr", s.cfg.ListenAddr).
		Str("admin_addr", s.cfg.AdminListenAddr).
		Int("gadgets", len(s.registry.Names())).
		Msg("gadgetd ready")

	select {
	case <-ctx.Done():
		log.Info().Msg("gadgetd shutdown")
		return nil
	case err := <-serverErr:
		return err
	case err := <-adminErr:
		return err
	}
}

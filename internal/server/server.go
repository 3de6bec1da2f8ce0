package server

import (
	"bufio"
	"errors"
	"fmt"
	"net"

	"github.com/danmuck/gadgetctl/internal/observability"
	"github.com/danmuck/gadgetctl/internal/registry"
	"github.com/rs/zerolog/log"
)

// Server accepts protocol connections and runs one read-dispatch-reply loop
// per connection. A transport fault ends only its own connection; the shared
// registry and every other connection are unaffected.
type Server struct {
	dispatcher *Dispatcher
}

func NewServer(reg *registry.Registry) *Server {
	return &Server{dispatcher: NewDispatcher(reg)}
}

// Dispatcher exposes the request mapper, mainly for tests.
func (s *Server) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Serve accepts connections until the listener closes.
func (s *Server) Serve(ln net.Listener) error {
	log.Info().Str("addr", ln.Addr().String()).Msg("gadget server listening")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("server: accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	observability.ConnectionOpened()
	defer observability.ConnectionClosed()
	defer conn.Close()

	logger := log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	logger.Debug().Msg("connection open")

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		reply := s.dispatcher.Dispatch(scanner.Text())
		if _, err := fmt.Fprintf(conn, "%s\n", reply); err != nil {
			logger.Warn().Err(err).Msg("write failed, dropping connection")
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn().Err(err).Msg("read failed, dropping connection")
		return
	}
	logger.Debug().Msg("connection closed")
}

// Package sshserver serves the TUI over SSH. Every session gets its own
// bubbletea program bound to the session's channel.
package sshserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlog "github.com/charmbracelet/wish/logging"

	"github.com/abhisek/algoquest/internal/app"
)

const shutdownTimeout = 5 * time.Second

// Server wraps a wish SSH server.
type Server struct {
	srv    *ssh.Server
	opts   app.Options
	logger *slog.Logger
}

// New creates a server listening on addr. hostKeyPath is created on first
// start when it does not exist; empty lets wish create .ssh/id_ed25519.
func New(addr, hostKeyPath string, opts app.Options, logger *slog.Logger) (*Server, error) {
	s := &Server{opts: opts, logger: logger}

	sshOpts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithMiddleware(
			s.teaMiddleware,
			activeterm.Middleware(),
			wishlog.Middleware(),
		),
	}
	if hostKeyPath != "" {
		sshOpts = append(sshOpts, wish.WithHostKeyPath(hostKeyPath))
	}

	srv, err := wish.NewServer(sshOpts...)
	if err != nil {
		return nil, fmt.Errorf("create ssh server: %w", err)
	}
	s.srv = srv
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts sessions on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("ssh server listening", "addr", ln.Addr().String())
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down ssh server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("shutdown ssh server: %w", err)
	}
	return nil
}

// teaMiddleware runs one program per session. activeterm has already
// rejected sessions without a PTY.
func (s *Server) teaMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			next(sess)
			return
		}

		p := tea.NewProgram(app.NewModel(s.opts),
			tea.WithInput(sess),
			tea.WithOutput(sess),
			tea.WithContext(sess.Context()),
			tea.WithEnvironment(sess.Environ()),
		)

		go func() {
			p.Send(tea.WindowSizeMsg{Width: pty.Window.Width, Height: pty.Window.Height})
			for win := range winCh {
				p.Send(tea.WindowSizeMsg{Width: win.Width, Height: win.Height})
			}
		}()

		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			s.logger.Warn("ssh session ended with error", "user", sess.User(), "error", err)
		}
		next(sess)
	}
}

// Package sshhost 通过 SSH 提供彩虹回声：每个带 PTY 的 SSH 会话就是一个宿主终端面板，
// 由 bridge.Controller 驱动。
package sshhost

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"rainbow-echo/internal/bridge"
	"rainbow-echo/internal/logger"

	gliderssh "github.com/gliderlabs/ssh"
)

// Server 在 Addr（或已有的 Listener）上接受 SSH 连接。
// 未配置认证处理器，任何用户名都能登录，默认只监听回环地址。
type Server struct {
	Addr        string
	HostKeyPath string
	Listener    net.Listener
	Language    string
	TestMode    bool
	Logger      *logger.LogEntry
}

// ListenAndServe 启动服务，ctx 取消时关闭监听并返回 nil。
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.Logger == nil {
		s.Logger = logger.Named("sshhost")
	}
	signer, err := EnsureHostKey(s.HostKeyPath)
	if err != nil {
		return err
	}

	server := &gliderssh.Server{
		Addr:    s.Addr,
		Handler: func(sess gliderssh.Session) { s.handleSession(ctx, sess) },
	}
	server.AddHostKey(signer)

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()
	addr := s.Addr
	if s.Listener != nil {
		addr = s.Listener.Addr().String()
	}
	s.Logger.WithField("addr", addr).Info("ssh host listening")

	select {
	case <-ctx.Done():
		_ = server.Close()
		s.Logger.Info("ssh host stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, gliderssh.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) controller(ctx context.Context) *bridge.Controller {
	return bridge.NewController(bridge.Options{
		Context:  ctx,
		Language: s.Language,
		TestMode: s.TestMode,
		Logger:   s.Logger,
	})
}

func (s *Server) handleSession(srvCtx context.Context, sess gliderssh.Session) {
	log := s.Logger.WithField("user", sess.User()).WithField("remote", sess.RemoteAddr().String())
	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected: pty required")
		_, _ = io.WriteString(sess, "rainbow-echo: pty required\r\n")
		_ = sess.Exit(1)
		return
	}

	ctx, cancel := context.WithCancel(sess.Context())
	defer cancel()
	stop := context.AfterFunc(srvCtx, cancel)
	defer stop()

	ctrl := s.controller(ctx)
	log = log.WithField("session", ctrl.ID())
	closed := make(chan struct{})
	var once sync.Once
	ctrl.OnDidWrite(func(data string) {
		_, _ = io.WriteString(sess, data)
	})
	ctrl.OnDidClose(func(code int) {
		once.Do(func() {
			log.WithField("code", code).Info("ssh session finished")
			_ = sess.Exit(code)
			close(closed)
		})
	})

	log.WithField("term", pty.Term).Info("ssh session opened")
	if err := ctrl.Open(&bridge.Dimensions{Columns: pty.Window.Width, Rows: pty.Window.Height}); err != nil {
		log.Warnf("open controller: %v", err)
		return
	}
	if s.TestMode {
		// 横幅已写出，没有交互会话可等。
		ctrl.HandleExit(0)
		return
	}

	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := sess.Read(buf)
			if n > 0 {
				ctrl.HandleInput(buf[:n])
			}
			if err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			ctrl.Close()
			log.Info("ssh session closed by client")
			return
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			ctrl.SetDimensions(bridge.Dimensions{Columns: win.Width, Rows: win.Height})
		}
	}
}

// Package web serves the WebTop shell to browsers. It hosts the static
// frontend over HTTP, and speaks a JSON desktop protocol over WebSocket with
// a WebTransport (HTTP/3 over QUIC) fast path for browsers that support it.
// Each connection gets its own isolated desktop session.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/quic-go/quic-go/http3"
	"github.com/quic-go/webtransport-go"

	"github.com/Gaurav-Gosain/webtop/internal/system"
)

//go:embed static/*
var staticFiles embed.FS

// metricsInterval is how often system stats are sampled and pushed.
const metricsInterval = 2 * time.Second

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
	})
}

// SetLogLevel sets the logging level for the web package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Config holds the web server configuration.
type Config struct {
	Host           string        // Host to bind to (default: "localhost")
	Port           string        // Port to listen on (default: "8089")
	MaxConnections int           // Maximum concurrent connections (0 = unlimited)
	IdleTimeout    time.Duration // Idle timeout for connections (0 = no timeout)
	AllowOrigins   []string      // Allowed origins for WebSocket (empty = all)
	Debug          bool          // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Host: "localhost",
		Port: "8089",
	}
}

// Server hosts the shell and its desktop sessions.
type Server struct {
	config    Config
	monitor   *system.Monitor
	wtServer  *webtransport.Server
	sessions  sync.Map // map[string]*Session
	connCount int32    // atomic counter
	certInfo  *CertInfo
}

// NewServer creates a new WebTop server.
func NewServer(config Config) *Server {
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == "" {
		config.Port = "8089"
	}

	if config.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	logger.Info("creating server",
		"host", config.Host,
		"port", config.Port,
		"max_connections", config.MaxConnections,
	)

	return &Server{
		config:  config,
		monitor: system.NewMonitor(metricsInterval),
	}
}

// Start runs the HTTP and WebTransport listeners until the context ends.
func (s *Server) Start(ctx context.Context) error {
	// WebTransport rides on the HTTP port + 1 over UDP
	wtPortNum := 8090
	if p, err := strconv.Atoi(s.config.Port); err == nil {
		wtPortNum = p + 1
	}
	wtPort := strconv.Itoa(wtPortNum)

	httpAddr := net.JoinHostPort(s.config.Host, s.config.Port)
	wtAddr := net.JoinHostPort("127.0.0.1", wtPort)

	// WebTransport needs a certificate; browsers accept a fresh self-signed
	// one through serverCertificateHashes
	logger.Debug("generating self-signed certificate")
	certInfo, err := GenerateSelfSignedCert()
	if err != nil {
		return fmt.Errorf("failed to generate self-signed certificate: %w", err)
	}
	s.certInfo = certInfo

	httpMux := http.NewServeMux()
	httpMux.HandleFunc("/", s.handleIndex)
	httpMux.HandleFunc("/static/", s.handleStatic)
	httpMux.HandleFunc("/ws", s.handleWebSocket)

	httpMux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Certificate hash endpoint so the shell can open a WebTransport session
	httpMux.HandleFunc("/cert-hash", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		hashArray := make([]int, len(s.certInfo.Hash))
		for i, b := range s.certInfo.Hash {
			hashArray[i] = int(b)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"algorithm": "sha-256",
			"hashBytes": hashArray,
			"wtUrl":     fmt.Sprintf("https://127.0.0.1:%s/webtransport", wtPort),
		})
	})

	wtMux := http.NewServeMux()
	wtMux.HandleFunc("/webtransport", s.handleWebTransport)

	s.wtServer = &webtransport.Server{
		H3: http3.Server{
			Addr:            wtAddr,
			TLSConfig:       s.certInfo.TLSConfig,
			Handler:         wtMux,
			EnableDatagrams: true,
		},
		CheckOrigin: func(_ *http.Request) bool { return true },
	}

	httpServer := &http.Server{
		Addr:         httpAddr,
		Handler:      httpMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// One monitor feeds every session's metrics push
	go s.monitor.Run(ctx, nil)

	errChan := make(chan error, 2)

	go func() {
		logger.Info("HTTP server starting",
			"addr", httpAddr,
			"url", fmt.Sprintf("http://%s", httpAddr),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	go func() {
		logger.Info("WebTransport server starting",
			"addr", wtAddr,
			"protocol", "QUIC/UDP",
		)
		if err := s.wtServer.ListenAndServe(); err != nil {
			logger.Warn("WebTransport server error", "err", err)
		}
	}()

	logger.Info("server ready",
		"url", fmt.Sprintf("http://%s", httpAddr),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
		_ = httpServer.Shutdown(context.Background())
		_ = s.wtServer.Close()
		return nil
	case err := <-errChan:
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	logger.Debug("serving index", "remote", r.RemoteAddr)

	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	data, err := staticFiles.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	logger.Debug("serving static", "path", path, "size", len(data))

	switch {
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(path, ".svg"):
		w.Header().Set("Content-Type", "image/svg+xml")
	}

	_, _ = w.Write(data)
}

// checkConnectionLimit returns true if the connection is allowed.
func (s *Server) checkConnectionLimit() bool {
	if s.config.MaxConnections <= 0 {
		return true
	}
	newCount := atomic.AddInt32(&s.connCount, 1)
	if int(newCount) > s.config.MaxConnections {
		atomic.AddInt32(&s.connCount, -1)
		logger.Warn("connection limit reached",
			"current", newCount-1,
			"max", s.config.MaxConnections,
		)
		return false
	}
	logger.Debug("connection accepted", "count", newCount)
	return true
}

func (s *Server) releaseConnection() {
	if s.config.MaxConnections <= 0 {
		return
	}
	newCount := atomic.AddInt32(&s.connCount, -1)
	logger.Debug("connection released", "count", newCount)
}

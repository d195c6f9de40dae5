// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     signal
// Description: Local WebSocket bridge carrying the speak/cancel protocol
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package signal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// Message types of the bridge
const (
	TypeSpeak  = "speak"
	TypeCancel = "cancel"
	TypePing   = "ping"
	TypeAck    = "ack"
	TypePong   = "pong"
	TypeError  = "error"
)

// WSPath is the HTTP path the bridge is served on
const WSPath = "/ws"

// WSMessage is one frame on the bridge
type WSMessage struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Handler receives requests arriving over the bridge. A speak request has
// the same meaning as writing the text file and raising the trigger flag;
// a cancel request the same as raising the cancel flag.
type Handler interface {
	RemoteSpeak(text string)
	RemoteCancel()
}

// WebSocket upgrader restricted to local clients
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     localOrigin,
}

// localOrigin accepts clients that send no Origin (CLI, scripts) and pages
// served from a loopback host. Any other website is refused, since a
// browser will happily connect to 127.0.0.1 on its behalf.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Server accepts bridge connections
type Server struct {
	addr    string
	handler Handler
	srv     *http.Server
	ln      net.Listener
	logger  *logging.Logger
}

// NewServer creates a bridge server for addr
func NewServer(addr string, handler Handler) *Server {
	s := &Server{
		addr:    addr,
		handler: handler,
		logger:  logging.New("signal-ws"),
	}
	mux := http.NewServeMux()
	mux.Handle(WSPath, s)
	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start listens and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	s.logger.Info("WebSocket bridge listening", "addr", ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("WebSocket bridge stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ServeHTTP handles WebSocket upgrade and connections
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	s.handleConnection(conn)
}

func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	s.logger.Debug("WebSocket connection established", "remote", conn.RemoteAddr().String())

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read error", "error", err)
			}
			return
		}

		var reply WSMessage
		switch msg.Type {
		case TypeSpeak:
			s.handler.RemoteSpeak(msg.Text)
			reply = WSMessage{Type: TypeAck}
		case TypeCancel:
			s.handler.RemoteCancel()
			reply = WSMessage{Type: TypeAck}
		case TypePing:
			reply = WSMessage{Type: TypePong}
		default:
			reply = WSMessage{Type: TypeError, Error: "unknown message type: " + msg.Type}
		}

		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Warn("WebSocket write error", "error", err)
			return
		}
	}
}

// Client sends speak and cancel requests over the bridge
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Dial connects to a bridge at addr (host:port)
func Dial(ctx context.Context, addr string) (*Client, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, "ws://"+addr+WSPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Speak asks the speaker to speak text
func (c *Client) Speak(text string) error {
	return c.roundTrip(WSMessage{Type: TypeSpeak, Text: text}, TypeAck)
}

// Cancel asks the speaker to stop
func (c *Client) Cancel() error {
	return c.roundTrip(WSMessage{Type: TypeCancel}, TypeAck)
}

// Ping checks the connection
func (c *Client) Ping() error {
	return c.roundTrip(WSMessage{Type: TypePing}, TypePong)
}

func (c *Client) roundTrip(msg WSMessage, want string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	var resp WSMessage
	if err := c.conn.ReadJSON(&resp); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	switch resp.Type {
	case want:
		return nil
	case TypeError:
		return fmt.Errorf("server error: %s", resp.Error)
	default:
		return fmt.Errorf("unexpected response: %s", resp.Type)
	}
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := c.conn.Close()
	c.conn = nil
	return err
}

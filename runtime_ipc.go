// runtime_ipc.go - Unix domain socket IPC for hot-reload and single-instance coordination

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const ipcMaxRequestSize = 4096

// allowedExtensions gates which files the "load-phosphor", "load-audio",
// and "load-vector" IPC commands will accept (spec.md §4.1, §5.2, §6).
var allowedExtensions = map[string]bool{
	".phosphor": true, ".mp3": true, ".wav": true, ".vector": true,
}

type ipcRequest struct {
	Cmd  string `json:"cmd"` // "load-phosphor", "load-audio", "load-vector"
	Path string `json:"path"`
}

type ipcResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// IPCServer listens on a Unix socket and dispatches hot-reload requests
// against a running instance (spec.md's ambient process-coordination
// surface): a second invocation can push a new phosphor or audio file
// into an already-running simulator instead of starting a competing one.
type IPCServer struct {
	listener net.Listener
	handler  func(cmd, path string) error
	done     chan struct{}
	sockPath string
}

func init() {
	compiledFeatures = append(compiledFeatures, "ipc:unix-socket")
}

func resolveSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "phosphor-sim.sock")
	}
	return "/tmp/phosphor-sim.sock"
}

// NewIPCServer creates and binds the IPC Unix socket at the default path.
func NewIPCServer(handler func(cmd, path string) error) (*IPCServer, error) {
	return newIPCServerAt(resolveSocketPath(), handler)
}

// newIPCServerAt creates and binds the IPC Unix socket at the given path.
func newIPCServerAt(sockPath string, handler func(cmd, path string) error) (*IPCServer, error) {
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		// Stale socket cleanup: try connecting. If peer is dead, remove and retry.
		conn, dialErr := net.DialTimeout("unix", sockPath, 2*time.Second)
		if dialErr != nil {
			os.Remove(sockPath)
			ln, err = net.Listen("unix", sockPath)
			if err != nil {
				return nil, fmt.Errorf("ipc bind failed: %w", err)
			}
		} else {
			conn.Close()
			return nil, fmt.Errorf("another instance is already running")
		}
	}
	return &IPCServer{listener: ln, handler: handler, done: make(chan struct{}), sockPath: sockPath}, nil
}

// Start begins accepting IPC connections in a goroutine.
func (s *IPCServer) Start() {
	go s.acceptLoop()
}

// Stop closes the listener and waits for the accept loop to exit.
func (s *IPCServer) Stop() {
	s.listener.Close()
	<-s.done
	os.Remove(s.sockPath)
}

func (s *IPCServer) acceptLoop() {
	defer close(s.done)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *IPCServer) handleConn(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	buf := make([]byte, ipcMaxRequestSize)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return
	}

	var req ipcRequest
	if err := json.Unmarshal(buf[:n], &req); err != nil {
		s.writeResponse(conn, ipcResponse{Status: "err", Message: "invalid json"})
		return
	}

	switch req.Cmd {
	case "load-phosphor", "load-audio", "load-vector":
	default:
		s.writeResponse(conn, ipcResponse{Status: "err", Message: "unknown command"})
		return
	}

	if err := validateIPCPath(req.Path); err != nil {
		s.writeResponse(conn, ipcResponse{Status: "err", Message: err.Error()})
		return
	}

	if err := s.handler(req.Cmd, req.Path); err != nil {
		s.writeResponse(conn, ipcResponse{Status: "err", Message: err.Error()})
		return
	}

	s.writeResponse(conn, ipcResponse{Status: "ok"})
}

func (s *IPCServer) writeResponse(conn net.Conn, resp ipcResponse) {
	data, _ := json.Marshal(resp)
	conn.Write(data)
}

func validateIPCPath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("absolute path required")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		return fmt.Errorf("unsupported extension: %s", ext)
	}
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	return nil
}

// SendIPCLoad sends a load-phosphor/load-audio request to an existing
// instance at the default socket, for hot-reloading a running simulator
// from a second CLI invocation.
func SendIPCLoad(cmd, path string) error {
	return sendIPCLoadAt(resolveSocketPath(), cmd, path)
}

// sendIPCLoadAt sends a load request to an instance at the given socket path.
func sendIPCLoadAt(sockPath, cmd, path string) error {
	conn, err := net.DialTimeout("unix", sockPath, 10*time.Second)
	if err != nil {
		return fmt.Errorf("cannot connect to running instance: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	req := ipcRequest{Cmd: cmd, Path: path}
	data, _ := json.Marshal(req)
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	buf := make([]byte, ipcMaxRequestSize)
	n, err := conn.Read(buf)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}

	var resp ipcResponse
	if err := json.Unmarshal(buf[:n], &resp); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	if resp.Status != "ok" {
		return fmt.Errorf("remote error: %s", resp.Message)
	}
	return nil
}

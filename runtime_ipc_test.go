package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIPCServerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "test.sock")

	phosphorPath := filepath.Join(dir, "custom.phosphor")
	if err := os.WriteFile(phosphorPath, []byte("name x\npeak_nm 500\nfwhm_nm 50\nterm 1e-3 1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotCmd, gotPath string
	srv, err := newIPCServerAt(sockPath, func(cmd, path string) error {
		gotCmd, gotPath = cmd, path
		return nil
	})
	if err != nil {
		t.Fatalf("newIPCServerAt: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	if err := sendIPCLoadAt(sockPath, "load-phosphor", phosphorPath); err != nil {
		t.Fatalf("sendIPCLoadAt: %v", err)
	}
	if gotCmd != "load-phosphor" || gotPath != phosphorPath {
		t.Errorf("handler saw (%q,%q), want (%q,%q)", gotCmd, gotPath, "load-phosphor", phosphorPath)
	}
}

func TestIPCServerRejectsRelativePath(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "test2.sock")

	srv, err := newIPCServerAt(sockPath, func(cmd, path string) error { return nil })
	if err != nil {
		t.Fatalf("newIPCServerAt: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	err = sendIPCLoadAt(sockPath, "load-phosphor", "relative/path.phosphor")
	if err == nil {
		t.Error("expected an error for a relative path")
	}
}

func TestIPCServerRejectsDisallowedExtension(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "test3.sock")
	binPath := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(binPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv, err := newIPCServerAt(sockPath, func(cmd, path string) error { return nil })
	if err != nil {
		t.Fatalf("newIPCServerAt: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	if err := sendIPCLoadAt(sockPath, "load-phosphor", binPath); err == nil {
		t.Error("expected an error for a disallowed file extension")
	}
}

func TestSecondInstanceRejectedWhileFirstIsRunning(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "test4.sock")

	first, err := newIPCServerAt(sockPath, func(cmd, path string) error { return nil })
	if err != nil {
		t.Fatalf("first newIPCServerAt: %v", err)
	}
	first.Start()
	defer first.Stop()

	if _, err := newIPCServerAt(sockPath, func(cmd, path string) error { return nil }); err == nil {
		t.Error("expected an error binding a second instance to the same socket")
	}
}

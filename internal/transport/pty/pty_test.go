package pty

import (
	"strings"
	"testing"
	"time"
)

func TestReadReceivesShellOutput(t *testing.T) {
	p := New("/bin/sh", []string{"-c", "echo hello; sleep 5"})
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Close()

	buf := make([]byte, 4096)
	deadline := time.Now().Add(2 * time.Second)
	var got strings.Builder
	for time.Now().Before(deadline) {
		r := p.Read(buf, 500*time.Millisecond)
		if r.EOF {
			break
		}
		if r.Again {
			continue
		}
		got.Write(r.Data)
		if strings.Contains(got.String(), "hello") {
			break
		}
	}
	if !strings.Contains(got.String(), "hello") {
		t.Fatalf("did not see shell output, got %q", got.String())
	}
}

func TestWakeupReaderUnblocksRead(t *testing.T) {
	p := New("/bin/sh", []string{"-c", "sleep 5"})
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Close()

	done := make(chan struct{})
	go func() {
		buf := make([]byte, 64)
		p.Read(buf, 0) // block indefinitely until wakeup
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	p.WakeupReader()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Read did not unblock after WakeupReader")
	}
}

func TestResizeDoesNotError(t *testing.T) {
	p := New("/bin/sh", []string{"-c", "sleep 5"})
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Close()

	if err := p.Resize(40, 120, nil); err != nil {
		t.Fatalf("Resize: %v", err)
	}
}

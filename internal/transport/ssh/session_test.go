package ssh

import (
	"testing"
	"time"
)

func TestStateString(t *testing.T) {
	if StateOperational.String() != "Operational" {
		t.Fatalf("got %q", StateOperational.String())
	}
	if State(999).String() != "Unknown" {
		t.Fatalf("expected Unknown for out-of-range state")
	}
}

func TestPromptSecretHandlesBackspaceAndEnter(t *testing.T) {
	s := New(Config{Host: "example.com", User: "alice"})

	done := make(chan string, 1)
	go func() {
		v, err := s.promptSecret("Password: ", StateAuthPasswordWaitForInput)
		if err != nil {
			t.Errorf("promptSecret: %v", err)
			return
		}
		done <- v
	}()

	// give the goroutine time to register waitingAuth
	time.Sleep(20 * time.Millisecond)
	s.Write([]byte("sw0rdf"))
	s.Write([]byte{0x7f}) // backspace drops the trailing 'f'
	s.Write([]byte("fish"))
	s.Write([]byte("\r"))

	select {
	case got := <-done:
		if got != "sw0rdfish" {
			t.Fatalf("got %q want %q", got, "sw0rdfish")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("promptSecret did not resolve")
	}
}

func TestWakeupReaderUnblocksRead(t *testing.T) {
	s := New(Config{Host: "example.com", User: "alice"})
	done := make(chan struct{})
	go func() {
		buf := make([]byte, 64)
		r := s.Read(buf, 0)
		if !r.Again {
			t.Errorf("expected Again after wakeup, got %+v", r)
		}
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	s.WakeupReader()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Read did not unblock after WakeupReader")
	}
}

func TestReadReturnsInjectedLine(t *testing.T) {
	s := New(Config{Host: "example.com", User: "alice"})
	s.injectLine("hello")

	buf := make([]byte, 64)
	r := s.Read(buf, time.Second)
	if r.Again || r.EOF {
		t.Fatalf("unexpected result: %+v", r)
	}
	if string(r.Data) != "hello" {
		t.Fatalf("got %q want %q", r.Data, "hello")
	}
}

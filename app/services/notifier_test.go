package services

import (
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeMailer struct {
	mu      sync.Mutex
	sent    []string
	bodies  []string
	err     error
	release chan struct{}
}

func (m *fakeMailer) SendHTMLEmail(to, subject, body string) error {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if subject != WelcomeSubject {
		return errors.New("unexpected subject " + subject)
	}
	m.sent = append(m.sent, to)
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestNotifier_DeliversOnClose(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewNotifier(mailer, 4, "https://eagri.example")

	n.WelcomeEmail("ravi@example.com", "Ravi", "farmer")
	n.WelcomeEmail("agro@example.com", "Agro", "dealer")
	n.Close()

	if mailer.count() != 2 {
		t.Fatalf("sent = %d, want 2", mailer.count())
	}
	if !strings.Contains(mailer.bodies[1], dealerWelcomeLine) {
		t.Fatal("dealer email should mention pending verification")
	}
}

func TestNotifier_FailuresAreSwallowed(t *testing.T) {
	n := NewNotifier(&fakeMailer{err: errors.New("smtp down")}, 1, "")
	n.WelcomeEmail("ravi@example.com", "Ravi", "farmer")
	n.Close()
}

func TestNotifier_NeverBlocks(t *testing.T) {
	mailer := &fakeMailer{release: make(chan struct{})}
	n := NewNotifier(mailer, 1, "")

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			n.WelcomeEmail("ravi@example.com", "Ravi", "farmer")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WelcomeEmail blocked on a full queue")
	}

	close(mailer.release)
	n.Close()

	// One in flight plus one queued; the rest were dropped.
	if got := mailer.count(); got < 1 || got > 2 {
		t.Fatalf("sent = %d, want 1 or 2", got)
	}
}

func TestNotifier_AfterClose(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewNotifier(mailer, 1, "")
	n.Close()
	n.Close()

	n.WelcomeEmail("late@example.com", "Late", "farmer")
	if mailer.count() != 0 {
		t.Fatal("no email expected after close")
	}
}

func TestNotifier_NilMailer(t *testing.T) {
	n := NewNotifier(nil, 1, "")
	n.WelcomeEmail("ravi@example.com", "Ravi", "farmer")
	n.Close()
}

func TestBuildWelcomeEmailBody(t *testing.T) {
	body, err := BuildWelcomeEmailBody("<b>Ravi</b>", "farmer", "https://eagri.example")
	if err != nil {
		t.Fatalf("BuildWelcomeEmailBody() error = %v", err)
	}
	if strings.Contains(body, "<b>Ravi</b>") {
		t.Fatal("name must be escaped")
	}
	if !strings.Contains(body, farmerWelcomeLine) || !strings.Contains(body, "https://eagri.example") {
		t.Fatal("body missing farmer line or link")
	}
}

func TestMailer_SendWithoutConfig(t *testing.T) {
	m := NewMailer(Config{})
	if m.Configured() {
		t.Fatal("empty config should not be configured")
	}
	if err := m.SendHTMLEmail("ravi@example.com", WelcomeSubject, "<p>hi</p>"); err == nil {
		t.Fatal("expected error without smtp host")
	}
}

func TestMailer_SendTimesOutOnSilentServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	// Accept and hold connections without ever sending a greeting.
	held := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			held <- conn
		}
	}()
	defer func() {
		select {
		case conn := <-held:
			conn.Close()
		default:
		}
	}()

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	m := NewMailer(Config{Host: host, Port: port, From: "noreply@eagri.example", Timeout: 200 * time.Millisecond})

	result := make(chan error, 1)
	go func() { result <- m.SendHTMLEmail("ravi@example.com", WelcomeSubject, "<p>hi</p>") }()

	select {
	case err := <-result:
		if err == nil {
			t.Fatal("expected timeout error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("SendHTMLEmail did not return after the timeout")
	}
}

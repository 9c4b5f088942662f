package smtp

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"letterapi/internal/mailer"
)

// fakeServer is a minimal SMTP listener that accepts or rejects AUTH and
// records the DATA it receives.
type fakeServer struct {
	ln     net.Listener
	accept bool

	mu   sync.Mutex
	data []string
	cmds []string
}

func newFakeServer(t *testing.T, acceptAuth bool) *fakeServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeServer{ln: ln, accept: acceptAuth}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeServer) port() int { return s.ln.Addr().(*net.TCPAddr).Port }

func (s *fakeServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeServer) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

	reply("220 localhost ESMTP")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		s.mu.Lock()
		s.cmds = append(s.cmds, verb)
		s.mu.Unlock()

		switch verb {
		case "EHLO", "HELO":
			reply("250-localhost")
			reply("250 AUTH PLAIN LOGIN")
		case "AUTH":
			if s.accept {
				reply("235 2.7.0 Authentication successful")
			} else {
				reply("535 5.7.8 Username and Password not accepted")
			}
		case "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var sb strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				sb.WriteString(l)
			}
			s.mu.Lock()
			s.data = append(s.data, sb.String())
			s.mu.Unlock()
			reply("250 2.0.0 OK")
		case "QUIT":
			reply("221 2.0.0 Bye")
			return
		default:
			reply("250 OK")
		}
	}
}

func (s *fakeServer) received() ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.data...), append([]string(nil), s.cmds...)
}

func testEmail() *mailer.Email {
	return &mailer.Email{
		To:      []string{"client@example.com"},
		Subject: "Your letter is ready",
		Text:    "Attached.",
		Attachments: []mailer.Attachment{{
			Filename:    "generated_letter_2026-10-18_abc.docx",
			ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			Content:     []byte("PK docx"),
		}},
	}
}

func testConfig(port int) Config {
	return Config{
		Host:      "127.0.0.1",
		Port:      port,
		Username:  "office@example.com",
		Password:  "secret",
		From:      "office@example.com",
		Timeout:   5 * time.Second,
		TLSPolicy: mail.NoTLS,
	}
}

func TestSender_Send(t *testing.T) {
	srv := newFakeServer(t, true)

	err := New(testConfig(srv.port())).Send(context.Background(), testEmail())
	require.NoError(t, err)

	data, cmds := srv.received()
	require.Len(t, data, 1)
	assert.Contains(t, cmds, "AUTH")
	assert.Contains(t, data[0], "Subject: Your letter is ready")
	assert.Contains(t, data[0], "generated_letter_2026-10-18_abc.docx")
	assert.Contains(t, data[0], "wordprocessingml.document")
}

func TestSender_AuthRejected(t *testing.T) {
	srv := newFakeServer(t, false)

	err := New(testConfig(srv.port())).Send(context.Background(), testEmail())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp: failed to send email")

	data, _ := srv.received()
	assert.Empty(t, data)
}

func TestSender_NotConfigured(t *testing.T) {
	cfg := testConfig(2525)
	cfg.Password = ""

	err := New(cfg).Send(context.Background(), testEmail())
	assert.ErrorIs(t, err, mailer.ErrNotConfigured)
}

func TestSender_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cfg := testConfig(port)
	cfg.Timeout = time.Second
	err = New(cfg).Send(context.Background(), testEmail())
	assert.Error(t, err)
}

func TestSender_InvalidEmail(t *testing.T) {
	e := testEmail()
	e.To = nil

	err := New(testConfig(2525)).Send(context.Background(), e)
	assert.ErrorIs(t, err, mailer.ErrNoRecipient)
}

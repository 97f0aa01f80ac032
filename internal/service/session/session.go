package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/pkg/log"
)

const DefaultQueueSize = 8

var ErrEmptyMessage = errors.New("empty message")

// Handler turns one user message into the bot reply. The reply is displayed
// even when err is set; err only reports that the exchange failed.
type Handler interface {
	Handle(ctx context.Context, text string) (string, error)
	Greeting() string
}

type Result struct {
	Reply string
	Err   error
}

type request struct {
	text   string
	result chan Result
}

// Session serializes a conversation: requests are queued and handled one at a
// time, strictly in submission order.
type Session struct {
	handler Handler
	display core.Display
	queue   chan request

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
	done   chan struct{}
}

func New(handler Handler, display core.Display, queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Session{
		handler: handler,
		display: display,
		queue:   make(chan request, queueSize),
		done:    make(chan struct{}),
	}
}

// Start greets the user and runs the consumer until ctx is done or Shutdown is called.
func (s *Session) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(log.WithComponent(ctx, "session"))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return core.ErrSessionClosed
	}
	s.cancel = cancel
	s.mu.Unlock()

	defer close(s.done)
	defer cancel()

	if greeting := s.handler.Greeting(); greeting != "" {
		s.display.Display(core.SenderBot, greeting)
	}

	for {
		select {
		case <-ctx.Done():
			s.drain()
			return nil
		case req := <-s.queue:
			s.process(ctx, req)
		}
	}
}

func (s *Session) process(ctx context.Context, req request) {
	logger := log.FromCtx(ctx)

	reply, err := s.handler.Handle(ctx, req.text)
	if err != nil {
		logger.Warn().Err(err).Msg("exchange failed")
	}
	if reply != "" {
		s.display.Display(core.SenderBot, reply)
	}
	req.result <- Result{Reply: reply, Err: err}
}

// drain rejects requests still queued after the consumer stopped.
func (s *Session) drain() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	for {
		select {
		case req := <-s.queue:
			req.result <- Result{Err: core.ErrSessionClosed}
		default:
			return
		}
	}
}

// Submit displays the user turn and queues it. The returned channel receives
// exactly one Result. A full queue fails with core.ErrQueueFull.
func (s *Session) Submit(ctx context.Context, text string) (<-chan Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, core.ErrSessionClosed
	}
	// only Submit sends, under mu, so a free slot stays free until the send below
	if len(s.queue) == cap(s.queue) {
		return nil, core.ErrQueueFull
	}

	s.display.Display(core.SenderUser, text)

	req := request{text: text, result: make(chan Result, 1)}
	s.queue <- req
	return req.result, nil
}

// Ask submits text and waits for its result.
func (s *Session) Ask(ctx context.Context, text string) (Result, error) {
	ch, err := s.Submit(ctx, text)
	if err != nil {
		return Result{}, err
	}
	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Shutdown stops the consumer, cancelling an in-flight request, and waits for it to exit.
func (s *Session) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

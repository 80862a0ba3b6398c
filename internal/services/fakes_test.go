package services

import (
	"context"
	"sync"
	"time"

	"leadgate/internal/models"
)

type fakeGateway struct {
	mu       sync.Mutex
	calls    []fakeSMS
	response string
	err      error
}

type fakeSMS struct {
	mobile string
	text   string
}

func (g *fakeGateway) Send(ctx context.Context, mobile, text string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, fakeSMS{mobile: mobile, text: text})
	return g.response, g.err
}

type fakeSink struct {
	mu       sync.Mutex
	payloads []models.LeadPayload
	response string
	err      error
	delay    time.Duration
}

func (s *fakeSink) Forward(ctx context.Context, payload *models.LeadPayload) (string, error) {
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, *payload)
	return s.response, s.err
}

type fakeNotifier struct {
	leads []models.LeadPayload
}

func (n *fakeNotifier) NotifyLead(payload models.LeadPayload) {
	n.leads = append(n.leads, payload)
}

// sequence returns a generator yielding codes in order.
func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

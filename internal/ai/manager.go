package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ManagerConfig struct {
	Timeout       int // seconds per generation call
	MaxInputChars int
}

// Manager owns the single generative call of a request: timeout, empty
// response rejection. Retry policy deliberately lives with the caller, not
// here.
type Manager struct {
	answerer IGenerator
	cfg      ManagerConfig
}

func NewManager(answerer IGenerator, cfg ManagerConfig) *Manager {
	return &Manager{answerer: answerer, cfg: cfg}
}

func (m *Manager) Generate(ctx context.Context, req *ChatRequest) (string, error) {
	if m.answerer == nil {
		return "", ErrUnavailable
	}
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	resp, err := m.answerer.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (m *Manager) MaxInputChars() int {
	return m.cfg.MaxInputChars
}

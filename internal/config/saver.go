// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

package config

import (
	"log/slog"
	"sync"
)

// Saver writes configs in the background. Only the latest pending config is
// written, so the file ends up holding the last value saved; Save never
// blocks the caller.
type Saver struct {
	write func(Config) error
	log   *slog.Logger

	mu      sync.Mutex
	pending *Config
	busy    bool
	idle    *sync.Cond
}

// NewSaver returns a Saver that writes with write and reports failures to
// log.
func NewSaver(write func(Config) error, log *slog.Logger) *Saver {
	s := &Saver{write: write, log: log}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// FileSaver returns a Saver writing to path.
func FileSaver(path string, log *slog.Logger) *Saver {
	return NewSaver(func(c Config) error { return Write(path, &c) }, log)
}

func (s *Saver) Save(c Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &c
	if s.busy {
		return
	}
	s.busy = true
	go s.loop()
}

func (s *Saver) loop() {
	for {
		s.mu.Lock()
		c := s.pending
		s.pending = nil
		if c == nil {
			s.busy = false
			s.idle.Broadcast()
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		if err := s.write(*c); err != nil {
			s.log.Warn("couldn't persist settings", "error", err)
		}
	}
}

// Flush waits until no write is pending.
func (s *Saver) Flush() {
	s.mu.Lock()
	for s.busy {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

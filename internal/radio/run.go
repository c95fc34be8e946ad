package radio

import (
	"context"
	"io"

	"github.com/five82/hdmon/internal/logtail"
)

// CommandKind identifies a control request from the UI.
type CommandKind int

const (
	CommandStart CommandKind = iota
	CommandStop
	CommandSwitch
)

// Command is applied on the producer goroutine between lines.
type Command struct {
	Kind    CommandKind
	Station string
	Slot    int
}

// Run reads lines from r and applies them together with commands until r
// is exhausted, ctx is cancelled or a line fails fatally. A nil commands
// channel is allowed. A fatal error is also recorded in the store.
func (s *Session) Run(ctx context.Context, r io.Reader, commands <-chan Command) error {
	lines, errs := logtail.Lines(ctx, r)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			s.Apply(cmd)
		case line, ok := <-lines:
			if !ok {
				if err := <-errs; err != nil {
					return s.fail(err)
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				return nil
			}
			if err := s.HandleLine(line); err != nil {
				return s.fail(err)
			}
		}
	}
}

// Apply executes a command. A start without a station resumes the last
// station and stream.
func (s *Session) Apply(cmd Command) {
	switch cmd.Kind {
	case CommandStart:
		if cmd.Station == "" {
			s.Start(s.lastStation, s.lastSlot)
			return
		}
		s.Start(cmd.Station, cmd.Slot)
	case CommandStop:
		s.Stop()
	case CommandSwitch:
		s.SwitchStream(cmd.Slot)
	}
}

func (s *Session) fail(err error) error {
	s.log.Error("producer stopped", "error", err)
	if s.store != nil {
		s.store.Fail(err)
	}
	return err
}

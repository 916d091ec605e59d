package prompt

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"
)

// Coordinator drives a sequence of questions against a state map.
type Coordinator struct {
	asker Asker
	log   *zap.Logger
}

// NewCoordinator creates a Coordinator asking through asker.
func NewCoordinator(asker Asker, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{asker: asker, log: log}
}

// Drive settles every question of seq in declaration order, mutating state.
//
// A question is asked when its key is unset. A pre-filled value is kept unless
// Validate objects, in which case the message is shown and the question asked.
// Answers typed by the user are not re-validated here; the Asker owns that loop.
func (c *Coordinator) Drive(ctx context.Context, seq iter.Seq[Pending], state map[string]any) error {
	if seq == nil {
		return nil
	}
	for pending := range seq {
		spec, err := pending(ctx)
		if err != nil {
			return fmt.Errorf("resolving prompt: %w", err)
		}
		if spec.Name == "" {
			return fmt.Errorf("prompt %q has no name", spec.Message)
		}
		if err := c.settle(ctx, spec, state); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) settle(ctx context.Context, spec Spec, state map[string]any) error {
	retry := false
	for {
		value, ok := state[spec.Name]
		if !ok || IsUnset(value) || retry {
			answer, err := c.asker.Ask(ctx, spec)
			if err != nil {
				return fmt.Errorf("prompt %q: %w", spec.Name, err)
			}
			state[spec.Name] = answer
			return nil
		}

		msg, err := spec.Check(value)
		if err != nil {
			return err
		}
		if msg != "" {
			c.log.Debug("pre-filled value rejected", zap.String("prompt", spec.Name), zap.String("reason", msg))
			c.asker.Say(msg)
			retry = true
			continue
		}

		c.log.Debug("using pre-filled value", zap.String("prompt", spec.Name))
		return nil
	}
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/domain"
	"github.com/mrz1836/customizer/internal/signal"
	"github.com/mrz1836/customizer/internal/store"
	"github.com/mrz1836/customizer/internal/tui"
)

// Interactive chat commands.
const (
	chatDone = "/done"
	chatQuit = "/quit"
)

// AddChatCommand adds the chat command.
func AddChatCommand(root *cobra.Command, s *session) {
	var (
		pf      paramFlags
		message string
		history string
		save    string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Customize a module through conversation",
		Long: `Start a customization conversation about a module.

Interactive mode prints a summary of the current configuration and reads
your requests one at a time. Type /done to generate and write the new
configuration, or /quit to leave without changes.

With --message a single turn is sent and the reply printed, which suits
scripts; combine it with --history and --save to carry a conversation
across calls, then run finalize.`,
		Example: `  customizer chat --org acme --module FM_STAFF_MASTER --industry retail
  customizer chat --org acme --module FM_STAFF_MASTER --industry retail \
      --message "Rename Employee ID to Staff Number" --save chat.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			params, err := pf.params()
			if err != nil {
				return err
			}
			var msgs []domain.ChatMessage
			if history != "" {
				raw, err := readFile(cmd, "history", history)
				if err != nil {
					return err
				}
				if msgs, err = parseHistory(raw); err != nil {
					return err
				}
			}

			a, err := s.newApp(ctx, withLLM())
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			c := &chatSession{app: a, out: s.output(cmd), format: s.flags.Output, params: params, history: msgs, save: save}
			if message != "" {
				return c.turn(ctx, message)
			}

			h := signal.NewHandler(ctx)
			defer h.Stop()
			h.OnInterrupt(func() {
				if err := c.persist(); err != nil {
					a.logger.Warn().Err(err).Msg("failed to save conversation on interrupt")
				}
			})
			return c.interactive(h.Context())
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&message, "message", "m", "", "send one message and exit")
	cmd.Flags().StringVar(&history, "history", "", "earlier conversation JSON file")
	cmd.Flags().StringVar(&save, "save", "", "write the conversation to this JSON file")

	root.AddCommand(cmd)
}

// chatSession is one customization conversation.
type chatSession struct {
	app    *app
	out    tui.Output
	format string
	params domain.ConfigParams
	save   string

	// mu guards history writes; persist may run from the interrupt handler.
	mu      sync.Mutex
	history []domain.ChatMessage
}

// turn sends one message and prints the reply.
func (c *chatSession) turn(ctx context.Context, message string) error {
	spin := c.out.Spinner(ctx, "Thinking")
	reply, err := c.app.svc.Chat(ctx, message, c.params, c.history...)
	spin.Stop()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.history = append(c.history,
		domain.ChatMessage{Role: domain.RoleUser, Content: message},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: reply},
	)
	c.mu.Unlock()
	if c.format == OutputJSON {
		if err := c.out.JSON(map[string]any{"success": true, "response": reply}); err != nil {
			return err
		}
	} else {
		c.out.Markdown(reply)
	}
	return c.persist()
}

// interactive runs the prompt loop until /done or /quit.
func (c *chatSession) interactive(ctx context.Context) error {
	from, err := c.app.store.Resolve(ctx, c.params)
	if err != nil {
		return err
	}
	res, err := c.app.svc.Load(ctx, c.params)
	if err != nil {
		return err
	}
	if !res.Exists {
		c.out.Info("started from the " + from.Tier.String() + " template")
	}

	spin := c.out.Spinner(ctx, "Reading the current configuration")
	summary, err := c.app.svc.Summary(ctx, c.params)
	spin.Stop()
	if err != nil {
		return err
	}
	c.out.Markdown(summary)

	for {
		input, err := tui.Input("You", "describe a change, "+chatDone+" to apply, "+chatQuit+" to exit")
		if errors.Is(err, tui.ErrMenuCanceled) {
			return c.persist()
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case chatQuit:
			return c.persist()
		case chatDone:
			return c.finalize(ctx)
		}

		if err := c.turn(ctx, strings.TrimSpace(input)); err != nil {
			// A failed turn does not end the conversation.
			c.out.Error(err)
		}
	}
}

func (c *chatSession) finalize(ctx context.Context) error {
	if err := c.persist(); err != nil {
		return err
	}
	if err := confirmWrite(c.params.OrgKey, c.params.ModuleKey); err != nil {
		return err
	}

	spin := c.out.Spinner(ctx, "Generating configuration")
	result, err := c.app.svc.Finalize(ctx, c.history, c.params)
	spin.Stop()
	if err != nil {
		return err
	}
	return printFinalize(c.out, c.format, c.params.ModuleKey, result)
}

// persist writes the conversation to --save, if set.
func (c *chatSession) persist() error {
	if c.save == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := c.history
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := store.AtomicWrite(c.save, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

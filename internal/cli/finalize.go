package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/customize"
	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/signal"
	"github.com/mrz1836/customizer/internal/tui"
)

// AddFinalizeCommand adds the finalize command.
func AddFinalizeCommand(root *cobra.Command, s *session) {
	var (
		pf      paramFlags
		history string
	)

	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Turn a saved conversation into a new configuration",
		Long: `Send a saved conversation to the LLM, write the configuration it
produces to the user tier and sync the module's group.

The history file is a JSON array of {"role": "user"|"assistant", "content": "..."}
objects, the format the chat command saves with --save.`,
		Example: `  customizer finalize --org acme --module FM_STAFF_MASTER --industry retail --history chat.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			params, err := pf.params()
			if err != nil {
				return err
			}
			raw, err := readFile(cmd, "history", history)
			if err != nil {
				return err
			}
			msgs, err := parseHistory(raw)
			if err != nil {
				return err
			}

			a, err := s.newApp(ctx, withLLM())
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			h := signal.NewHandler(ctx)
			defer h.Stop()
			ctx = h.Context()

			out := s.output(cmd)
			spin := out.Spinner(ctx, "Generating configuration")
			result, err := a.svc.Finalize(ctx, msgs, params)
			spin.Stop()
			if err != nil {
				return err
			}
			return printFinalize(out, s.flags.Output, params.ModuleKey, result)
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&history, "history", "", "conversation JSON file, - for stdin (required)")

	root.AddCommand(cmd)
}

// parseHistory decodes a saved conversation.
func parseHistory(raw string) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, cerrors.NewValidationError(cerrors.ErrInvalidRequestBody,
			[]string{fmt.Sprintf("history is not a JSON message array: %v", err)})
	}
	return msgs, nil
}

func printFinalize(out tui.Output, format, module string, result *customize.FinalizeResult) error {
	if format == OutputJSON {
		return out.JSON(result)
	}
	if result.CodesetsChanged {
		out.Info("codeset values changed")
	}
	printCommit(out, module, result.Commit)
	return nil
}

package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/automation"
)

func (a *App) automateCmd() *cobra.Command {
	var (
		modelFlag string
		yes       bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "automate [description]",
		Short: "Create a recurring automation from a description",
		Long: `Use AI to turn a description of a repetitive process into an automation.

The model picks how often it runs (daily, weekly, monthly or "every N days")
and, when it fits, an email to send you each time. Automations run at 09:00
and are fired by 'flowdesk sweep' or 'flowdesk daemon'.

Examples:
  flowdesk automate "Send my manager the weekly status report"
  flowdesk automate "Water the plants every 3 days" --yes
  flowdesk automate "Pay rent each month" --dry-run

Interactive mode:
  After the AI proposes a rule, you can:
  - [a]ccept: Save the automation
  - [r]etry:  Ask the model again
  - [c]ancel: Exit without saving`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if modelFlag != "" {
				a.config.LLM.Model = modelFlag
			}

			svc, err := a.automationService()
			if err != nil {
				return err
			}

			input := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			ctx := context.Background()
			reader := bufio.NewReader(os.Stdin)

			for {
				fmt.Fprintln(out, "Asking the model...")
				p, err := svc.Propose(ctx, input)
				if err != nil {
					return fmt.Errorf("proposing automation: %w", err)
				}
				printProposal(out, p)

				if dryRun {
					fmt.Fprintln(out, "\n(Dry run - automation not saved)")
					return nil
				}

				choice := "a"
				if !yes {
					fmt.Fprint(out, "\n[a]ccept / [r]etry / [c]ancel: ")
					line, err := reader.ReadString('\n')
					if err != nil && line == "" {
						return fmt.Errorf("reading input: %w", err)
					}
					choice = strings.TrimSpace(strings.ToLower(line))
				}

				switch choice {
				case "a", "accept":
					created, err := svc.Save(ctx, a.owner, p)
					if err != nil {
						return fmt.Errorf("saving automation: %w", err)
					}
					fmt.Fprintf(out, "\nSaved automation %s, first run %s\n",
						shortID(created.Task.ID), formatWhen(p.NextRun, a.now()))
					return nil
				case "r", "retry":
					continue
				case "c", "cancel":
					fmt.Fprintln(out, "Automation cancelled.")
					return nil
				default:
					fmt.Fprintln(out, "Invalid choice. Please enter 'a', 'r', or 'c'.")
				}
			}
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model to use (from config if not set)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Save the proposal without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the proposal without saving")

	return cmd
}

func printProposal(out io.Writer, p automation.Proposal) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", formatHeader(p.Rule.Description))
	freq := p.Frequency.String()
	if !p.Frequency.Recognized {
		freq = formatAlert(fmt.Sprintf("%q not understood, runs daily", p.Rule.Frequency))
	}
	fmt.Fprintf(out, "  runs:    %s at 09:00\n", freq)
	fmt.Fprintf(out, "  first:   %s\n", p.NextRun.Format("Mon Jan 2 15:04"))
	if p.Rule.SendsEmail() {
		fmt.Fprintf(out, "  email:   %s\n", p.Rule.EmailSubject)
	} else {
		fmt.Fprintf(out, "  email:   %s\n", formatMuted("none"))
	}
}

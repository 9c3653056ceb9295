package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/signatories/pkg/config"
	"github.com/doodlesbykumbi/signatories/pkg/editor"
	"github.com/doodlesbykumbi/signatories/pkg/events"
)

// signatoryDeleteCmd represents the signatory delete command
var signatoryDeleteCmd = &cobra.Command{
	Use:   "delete <certificate> <position>",
	Short: "Delete a signatory of a certificate",
	Long: `Delete the signatory at the given 1-based position of a certificate.

The deletion is confirmed interactively unless --yes is given. The
signatory is removed only once the certificates resource acknowledges the
deletion.

Example:
  signatoryctl signatory delete course-v1:edX+DemoX+Demo_Course 2
  signatoryctl signatory delete course-v1:edX+DemoX+Demo_Course 2 --yes --lang fr`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := deleteSignatory(cmd, args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	signatoryCmd.AddCommand(signatoryDeleteCmd)
	signatoryDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	signatoryDeleteCmd.Flags().String("lang", "", "language of the prompts (overrides configuration)")
}

func deleteSignatory(cmd *cobra.Command, certificateID, positionArg string) error {
	position, err := strconv.Atoi(positionArg)
	if err != nil || position < 1 {
		return fmt.Errorf("invalid position %q", positionArg)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	lang := cfg.Language
	if flag, _ := cmd.Flags().GetString("lang"); flag != "" {
		lang = flag
	}

	ctx := context.Background()
	coll, err := openCollection(cmd, cfg, certificateID)
	if err != nil {
		return err
	}
	if err := coll.Fetch(ctx); err != nil {
		return err
	}

	target, ok := coll.At(position - 1)
	if !ok {
		return fmt.Errorf("certificate %s has %d signatories, no signatory %d", certificateID, coll.Len(), position)
	}

	var confirmer editor.Confirmer = newTerminalConfirmer(os.Stdin, os.Stdout)
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		confirmer = editor.Answer(true)
	}

	bus := events.NewBus()
	events.OnSignatoryRemoved(bus, func(e events.SignatoryRemoved) {
		fmt.Printf("Deleted signatory %d (%s)\n", e.Position, e.Signatory.Name)
	})

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	view, err := editor.NewView(coll, target.Key, editor.Options{
		Bus:       bus,
		Messages:  editor.NewMessages(lang),
		Confirmer: confirmer,
		Progress:  terminalProgress{out: os.Stdout},
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	state, err := view.DeleteItem(ctx)
	if err != nil {
		var deleteErr *editor.DeleteError
		if errors.As(err, &deleteErr) {
			return errors.New(deleteErr.Message)
		}
		return err
	}
	if state == editor.DeleteStateCancelled {
		fmt.Println("Cancelled")
	}
	return nil
}

// terminalConfirmer asks a yes/no question on a terminal
type terminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalConfirmer(in io.Reader, out io.Writer) *terminalConfirmer {
	return &terminalConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *terminalConfirmer) Confirm(_ context.Context, p editor.Prompt) (bool, error) {
	fmt.Fprintf(c.out, "%s\n%s\n%s? [y/N] ", p.Title, p.Message, p.Action)

	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "o", "oui":
		return true, nil
	}
	return false, nil
}

// terminalProgress prints the progress message while an operation runs
type terminalProgress struct {
	out io.Writer
}

func (p terminalProgress) Run(ctx context.Context, message string, op func(context.Context) error) error {
	fmt.Fprintf(p.out, "%s...", message)
	err := op(ctx)
	if err != nil {
		fmt.Fprintln(p.out, " failed")
		return err
	}
	fmt.Fprintln(p.out, " done")
	return nil
}

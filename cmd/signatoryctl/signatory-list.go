package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/signatories/pkg/config"
	"github.com/doodlesbykumbi/signatories/pkg/signatory"
)

// signatoryListCmd represents the signatory list command
var signatoryListCmd = &cobra.Command{
	Use:   "list <certificate>",
	Short: "List the signatories of a certificate",
	Long: `List the signatories of a certificate in display order.

Example:
  signatoryctl signatory list course-v1:edX+DemoX+Demo_Course`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := listSignatories(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list signatories: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	signatoryCmd.AddCommand(signatoryListCmd)
}

func listSignatories(cmd *cobra.Command, certificateID string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	coll, err := openCollection(cmd, cfg, certificateID)
	if err != nil {
		return err
	}
	if err := coll.Fetch(context.Background()); err != nil {
		return err
	}

	return printSignatories(os.Stdout, coll.All())
}

func printSignatories(w io.Writer, list []signatory.Signatory) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No signatories")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tTITLE")
	for i, s := range list {
		id := "-"
		if !s.IsNew() {
			id = fmt.Sprint(s.ID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, id, s.Name, s.Title)
	}
	return tw.Flush()
}

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/signatories/pkg/config"
	"github.com/doodlesbykumbi/signatories/pkg/signatory"
	"github.com/doodlesbykumbi/signatories/pkg/signatory/remote"
)

// signatoryCmd represents the signatory command
var signatoryCmd = &cobra.Command{
	Use:   "signatory",
	Short: "Manage the signatories of a certificate",
	Long: `Manage the signatories of a certificate through the configured
certificates resource (certificate_base_url).`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'signatory' requires a subcommand (list, delete)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(signatoryCmd)
	signatoryCmd.PersistentFlags().String("base-url", "", "certificates resource base URL (overrides configuration)")
}

// openCollection builds the remote collection of a certificate
func openCollection(cmd *cobra.Command, cfg *config.Config, certificateID string) (*signatory.Collection, error) {
	baseURL := cfg.CertificateBaseURL
	if flag, _ := cmd.Flags().GetString("base-url"); flag != "" {
		baseURL = flag
	}

	httpClient := &http.Client{Timeout: cfg.RemoteTimeoutDuration()}
	return signatory.NewCollection(signatory.Config{
		CertificateBaseURL: baseURL,
		CertificateID:      certificateID,
	}, remote.Opener(httpClient, nil))
}

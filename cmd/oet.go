package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var oetCmd = &cobra.Command{
	Use:   "oet <gn_id>",
	Short: "Show artist origin, era and type for an album",
	Args:  cobra.ExactArgs(1),
	RunE:  runOET,
}

func init() {
	rootCmd.AddCommand(oetCmd)
}

func runOET(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	oet, err := s.svc.OET(ctx, args[0])
	if err != nil {
		return err
	}

	printOET(cmd.OutOrStdout(), oet)
	return nil
}

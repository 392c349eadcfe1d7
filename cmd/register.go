package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jfmyers9/gnlookup/internal/config"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a Gracenote user ID",
	Long: `Register a user ID for your Gracenote client ID.

Every registration counts against your client's user limit, so the user ID
is stored in the lookup database and reused by later commands. If no
client ID or tag is configured you'll be prompted for them.

Use --user-id to adopt an ID you already have instead of registering a new
one, and --save to also write the credentials and user ID to your config file.

You can get a client ID from: https://developer.gracenote.com`,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("user-id", "", "Existing user ID to adopt instead of registering")
	registerCmd.Flags().Bool("save", false, "Write credentials and user ID to the config file")
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := promptCredentials(bufio.NewReader(os.Stdin), out, cfg); err != nil {
		return err
	}

	s, err := openSessionWithConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	userID, _ := cmd.Flags().GetString("user-id")
	id, err := s.svc.Register(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "User ID: %s\n", id)

	if save, _ := cmd.Flags().GetBool("save"); save {
		cfg.Gracenote.UserID = id
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(out, "Saved to %s/config.yaml\n", config.GetConfigDir())
	}

	return nil
}

// promptCredentials asks for the client ID and tag when they are not configured
func promptCredentials(reader *bufio.Reader, out io.Writer, cfg *config.Config) error {
	if cfg.Gracenote.ClientID == "" {
		fmt.Fprint(out, "Enter your Gracenote client ID: ")
		clientID, err := reader.ReadString('\n')
		if err != nil && clientID == "" {
			return fmt.Errorf("failed to read client ID: %w", err)
		}
		cfg.Gracenote.ClientID = strings.TrimSpace(clientID)
	}

	if cfg.Gracenote.ClientTag == "" {
		fmt.Fprint(out, "Enter your Gracenote client tag: ")
		clientTag, err := reader.ReadString('\n')
		if err != nil && clientTag == "" {
			return fmt.Errorf("failed to read client tag: %w", err)
		}
		cfg.Gracenote.ClientTag = strings.TrimSpace(clientTag)
	}

	if cfg.Gracenote.ClientID == "" || cfg.Gracenote.ClientTag == "" {
		return fmt.Errorf("client ID and client tag are required")
	}
	return nil
}

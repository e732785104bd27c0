package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/drisen/mylib/internal/credstore"
	"github.com/drisen/mylib/internal/logerr"
)

var (
	// creds command flags
	credsFile        string
	credsInteractive bool
	credsSecret      string
	credsJSON        bool
)

var (
	credsHeaderStyle = lipgloss.NewStyle().Bold(true)
	credsSystemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// credsCmd represents the creds command
var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage the local credential store",
	Long: `Look up and maintain credentials in ~/.credentials.json, keyed by
(system, username).

Examples:
  # Look up the only username stored for a system
  mylib creds get ncs01.case.edu

  # Look up a specific username, prompting to create it when missing
  mylib creds get ncs01.case.edu alice --interactive

  # Store a credential non-interactively
  mylib creds set ncs01.case.edu alice --secret hunter2

  # Show everything stored
  mylib creds list`,
}

var credsGetCmd = &cobra.Command{
	Use:   "get <system> [username]",
	Short: "Look up the (username, secret) pair for a system",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := ""
		if len(args) == 2 {
			username = args[1]
		}

		store, err := openStore(credsInteractive)
		if err != nil {
			return err
		}
		logger.PrintIf(logerr.Decrement(verbose), "looking up", args[0], "in", store.Path())

		user, secret, err := store.Credentials(args[0], username, credsInteractive)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", user, secret)
		return nil
	},
}

var credsSetCmd = &cobra.Command{
	Use:   "set <system> <username>",
	Short: "Add or replace a stored credential",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := credsSecret
		if secret == "" {
			s, err := newPrompt().AskSecret(fmt.Sprintf("Enter secret for %s on %s", args[1], args[0]))
			if err != nil {
				return err
			}
			secret = s
		}
		if secret == "" {
			return fmt.Errorf("secret cannot be empty")
		}

		store, err := openStore(false)
		if err != nil {
			return err
		}
		if err := store.Set(args[0], args[1], secret); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Credentials saved to %s\n", store.Path())
		return nil
	},
}

var credsRemoveCmd = &cobra.Command{
	Use:   "remove <system> [username]",
	Short: "Remove a stored credential, or every entry for a system",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := ""
		if len(args) == 2 {
			username = args[1]
		}

		store, err := openStore(false)
		if err != nil {
			return err
		}
		if err := store.Remove(args[0], username); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed successfully")
		return nil
	},
}

var credsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials with masked secrets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(false)
		if err != nil {
			return err
		}

		repo, err := store.Load()
		if err != nil {
			if errors.Is(err, credstore.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No credentials stored.")
				return nil
			}
			return err
		}

		if credsJSON {
			return renderRepositoryJSON(cmd.OutOrStdout(), repo)
		}
		renderRepositoryTable(cmd.OutOrStdout(), repo)
		return nil
	},
}

// openStore resolves the credentials file path from the --file flag, the
// config file, or the default location, in that order.
func openStore(interactive bool) (*credstore.Store, error) {
	path := credsFile
	if path == "" {
		path = cfg.CredentialsFile
	}
	if path == "" {
		p, err := credstore.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if interactive {
		return credstore.New(path, newPrompt()), nil
	}
	return credstore.New(path, nil), nil
}

// renderRepositoryJSON prints the raw repository, syntax highlighted when
// the terminal supports color.
func renderRepositoryJSON(w io.Writer, repo credstore.Repository) error {
	data, err := json.MarshalIndent(repo, "", "  ")
	if err != nil {
		return err
	}

	if termenv.ColorProfile() == termenv.Ascii {
		fmt.Fprintln(w, string(data))
		return nil
	}
	return quick.Highlight(w, string(data)+"\n", "json", "terminal256", "monokai")
}

// renderRepositoryTable prints systems and usernames with masked secrets.
func renderRepositoryTable(w io.Writer, repo credstore.Repository) {
	fmt.Fprintln(w, credsHeaderStyle.Render("SYSTEM\tUSERNAME\tSECRET"))
	for _, system := range repo.Systems() {
		entry := repo[system]
		usernames := make([]string, 0, len(entry))
		for u := range entry {
			usernames = append(usernames, u)
		}
		sort.Strings(usernames)

		for _, u := range usernames {
			fmt.Fprintf(w, "%s\t%s\t%s\n", credsSystemStyle.Render(system), u, mask(entry[u].Secret))
		}
	}
}

// mask hides all but the edges of a secret.
func mask(secret string) string {
	if len(secret) > 8 {
		return secret[:4] + "..." + secret[len(secret)-4:]
	}
	return "***"
}

func init() {
	credsCmd.PersistentFlags().StringVar(&credsFile, "file", "", "Credentials file (default ~/"+credstore.FileName+")")

	credsGetCmd.Flags().BoolVarP(&credsInteractive, "interactive", "i", false, "Prompt to create the entry when missing")
	credsSetCmd.Flags().StringVar(&credsSecret, "secret", "", "Secret value (prompted without echo when omitted)")
	credsListCmd.Flags().BoolVar(&credsJSON, "json", false, "Print the repository as JSON")

	credsCmd.AddCommand(credsGetCmd, credsSetCmd, credsRemoveCmd, credsListCmd)
	rootCmd.AddCommand(credsCmd)
}

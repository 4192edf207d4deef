package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/clubify-io/checkout-client/internal/credentials"
)

// NewContextCommand creates the context command group
func NewContextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage credential contexts",
		Long:  "List, switch, add, and remove the credential contexts used to authenticate against the Clubify Checkout API",
	}

	cmd.AddCommand(newContextListCommand())
	cmd.AddCommand(newContextUseCommand())
	cmd.AddCommand(newContextRemoveCommand())
	cmd.AddCommand(newContextAddSuperAdminCommand())
	cmd.AddCommand(newContextAddTenantCommand())

	return cmd
}

func newContextListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List credential contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openCredentialManager()
			if err != nil {
				return err
			}

			contexts := manager.Contexts()
			sort.Slice(contexts, func(i, j int) bool {
				return contexts[i].ID < contexts[j].ID
			})

			handled, err := renderStructured(contexts)
			if handled {
				return err
			}

			active := manager.ActiveContextID()

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Active", "ID", "Type", "Tenant", "API Key", "Last Used")

			for _, credContext := range contexts {
				marker := ""
				if credContext.ID == active {
					marker = "*"
				}

				lastUsed := ""
				if !credContext.LastUsed.IsZero() {
					lastUsed = credContext.LastUsed.Format("2006-01-02 15:04:05")
				}

				_ = table.Append(marker, credContext.ID, string(credContext.Type),
					credContext.TenantID, maskAPIKey(credContext.APIKey), lastUsed)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newContextUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use CONTEXT_ID",
		Short: "Switch the active credential context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openCredentialManager()
			if err != nil {
				return err
			}

			err = manager.SwitchContext(args[0])
			if err != nil {
				return err
			}

			err = saveActiveContext(args[0])
			if err != nil {
				return fmt.Errorf("saving active context: %w", err)
			}

			fmt.Printf("Switched to context '%s'\n", args[0])

			return nil
		},
	}
}

func newContextRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove CONTEXT_ID",
		Short: "Remove a credential context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openCredentialManager()
			if err != nil {
				return err
			}

			wasActive := manager.ActiveContextID() == args[0]

			err = manager.RemoveContext(args[0])
			if err != nil {
				return err
			}

			if wasActive {
				err = saveActiveContext(manager.ActiveContextID())
				if err != nil {
					return fmt.Errorf("saving active context: %w", err)
				}
			}

			fmt.Printf("Removed context '%s'\n", args[0])

			return nil
		},
	}
}

func newContextAddSuperAdminCommand() *cobra.Command {
	var (
		apiKey   string
		username string
		email    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "add-super-admin",
		Short: "Add a super-admin credential context",
		Long:  "Store platform-operator credentials: either an API key, or an email and password pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openCredentialManager()
			if err != nil {
				return err
			}

			if apiKey == "" && email != "" && password == "" {
				fmt.Print("Password: ")

				passwordBytes, err := term.ReadPassword(syscall.Stdin)

				fmt.Println()

				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}

				password = strings.TrimSpace(string(passwordBytes))
			}

			err = manager.AddSuperAdminContext(credentials.SuperAdminCredentials{
				APIKey:   apiKey,
				Username: username,
				Email:    email,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return err
			}

			fmt.Println("Added super-admin context")

			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "super-admin API key (clb_test_... or clb_live_...)")
	cmd.Flags().StringVar(&username, "username", "", "operator username")
	cmd.Flags().StringVar(&email, "email", "", "operator email")
	cmd.Flags().StringVar(&password, "password", "", "operator password (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", "", "operator role")

	return cmd
}

func newContextAddTenantCommand() *cobra.Command {
	var (
		apiKey     string
		tenantName string
		domain     string
		subdomain  string
		role       string
	)

	cmd := &cobra.Command{
		Use:   "add-tenant TENANT_ID",
		Short: "Add a tenant credential context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openCredentialManager()
			if err != nil {
				return err
			}

			err = manager.AddTenantContext(args[0], credentials.TenantCredentials{
				APIKey:     apiKey,
				TenantName: tenantName,
				Domain:     domain,
				Subdomain:  subdomain,
				Role:       role,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Added tenant context '%s'\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "tenant API key (clb_test_... or clb_live_...)")
	cmd.Flags().StringVar(&tenantName, "name", "", "tenant display name")
	cmd.Flags().StringVar(&domain, "domain", "", "tenant custom domain")
	cmd.Flags().StringVar(&subdomain, "subdomain", "", "tenant subdomain on the platform")
	cmd.Flags().StringVar(&role, "role", "", "tenant role")

	return cmd
}

// maskAPIKey hides the key body, keeping the prefix and the last four
// characters.
func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}

	if len(key) < 14 {
		return "****"
	}

	return key[:9] + "****" + key[len(key)-4:]
}

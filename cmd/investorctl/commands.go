package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clubvest/clubvest-go/internal/api"
	"github.com/clubvest/clubvest-go/internal/biometric"
	"github.com/clubvest/clubvest-go/internal/config"
	"github.com/clubvest/clubvest-go/internal/session"
)

func newRootCmd() *cobra.Command {
	var current *app

	root := &cobra.Command{
		Use:           "investorctl",
		Short:         "Command-line client for the ClubVest investor portal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			current = a
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if current != nil {
				current.close()
			}
		},
	}

	get := func() *app { return current }

	root.AddCommand(
		newLoginCmd(get),
		newLogoutCmd(get),
		newWhoamiCmd(get),
		newChangePasswordCmd(get),
		newProfileCmd(get),
		newClubsCmd(get),
		newTransactionsCmd(get),
		newNotificationsCmd(get),
		newDashboardCmd(get),
		newReportCmd(get),
		newBiometricCmd(get),
	)
	return root
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newLoginCmd(get func() *app) *cobra.Command {
	var email, password string
	var companyID int64
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if password == "" {
				var err error
				if password, err = promptLine("Password: "); err != nil {
					return err
				}
			}
			data, err := a.client.Login(cmd.Context(), api.LoginRequest{
				Email:     email,
				Password:  password,
				CompanyID: companyID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("signed in as %s (%s)\n", data.User.Name, data.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	cmd.Flags().Int64Var(&companyID, "company", 0, "company id")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := get().client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}

func newWhoamiCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show local session status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			token, ok := a.client.Tokens().Get(cmd.Context())
			if !ok {
				fmt.Println("not signed in")
				return nil
			}
			fmt.Println("signed in")
			if expiry, known := session.ExpiresAt(token); known {
				fmt.Printf("session expires at %s\n", expiry.Local())
			}
			if currency, found := a.client.DisplayCurrency(cmd.Context()); found {
				fmt.Printf("display currency: %s\n", currency)
			}
			fmt.Printf("device id: %s\n", a.devices.ID(cmd.Context()))
			return nil
		},
	}
}

func newChangePasswordCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "change-password",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, err := promptLine("Current password: ")
			if err != nil {
				return err
			}
			updated, err := promptLine("New password: ")
			if err != nil {
				return err
			}
			if err := get().client.ChangePassword(cmd.Context(), api.ChangePasswordRequest{
				CurrentPassword: current,
				NewPassword:     updated,
			}); err != nil {
				return err
			}
			fmt.Println("password changed")
			return nil
		},
	}
}

func newProfileCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the investor profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := get().client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(profile)
		},
	}

	var name, phone, address string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := get().client.UpdateProfile(cmd.Context(), api.ProfileUpdate{
				Name:    name,
				Phone:   phone,
				Address: address,
			})
			if err != nil {
				return err
			}
			return printJSON(profile)
		},
	}
	update.Flags().StringVar(&name, "name", "", "display name")
	update.Flags().StringVar(&phone, "phone", "", "phone number")
	update.Flags().StringVar(&address, "address", "", "postal address")
	cmd.AddCommand(update)
	return cmd
}

func newClubsCmd(get func() *app) *cobra.Command {
	var clubType string
	cmd := &cobra.Command{
		Use:   "clubs [id]",
		Short: "List investment clubs, or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid club id %q", args[0])
				}
				club, err := a.client.Club(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printJSON(club)
			}
			clubs, err := a.client.Clubs(cmd.Context(), clubType)
			if err != nil {
				return err
			}
			return printJSON(clubs)
		},
	}
	cmd.Flags().StringVar(&clubType, "type", "", "filter by club type (live, closed, upcoming)")
	return cmd
}

func newTransactionsCmd(get func() *app) *cobra.Command {
	var page, perPage int
	var txType string
	cmd := &cobra.Command{
		Use:   "transactions [id]",
		Short: "List transactions, or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid transaction id %q", args[0])
				}
				tx, err := a.client.Transaction(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Printf("direction: %s\n", tx.Direction())
				return printJSON(tx)
			}
			pageData, err := a.client.Transactions(cmd.Context(), api.TransactionQuery{
				Page:    page,
				PerPage: perPage,
				Type:    txType,
			})
			if err != nil {
				return err
			}
			return printJSON(pageData)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "items per page")
	cmd.Flags().StringVar(&txType, "type", "", "filter by transaction type")
	return cmd
}

func newNotificationsCmd(get func() *app) *cobra.Command {
	var page, perPage int
	var unreadOnly bool
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := api.NotificationQuery{Page: page, PerPage: perPage}
			if unreadOnly {
				read := false
				query.Read = &read
			}
			pageData, err := get().client.Notifications(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(pageData)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "items per page")
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only unread notifications")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "count",
			Short: "Show the unread count",
			RunE: func(cmd *cobra.Command, _ []string) error {
				count, err := get().client.UnreadNotificationCount(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("%d unread\n", count.Count)
				return nil
			},
		},
		newNotificationIDCmd(get, "read", "Mark a notification as read", func(ctx context.Context, a *app, id int64) error {
			return a.client.MarkNotificationRead(ctx, id)
		}),
		&cobra.Command{
			Use:   "read-all",
			Short: "Mark every notification as read",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return get().client.MarkAllNotificationsRead(cmd.Context())
			},
		},
		newNotificationIDCmd(get, "delete", "Delete a notification", func(ctx context.Context, a *app, id int64) error {
			return a.client.DeleteNotification(ctx, id)
		}),
	)
	return cmd
}

func newNotificationIDCmd(get func() *app, use, short string, run func(context.Context, *app, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}
			return run(cmd.Context(), get(), id)
		},
	}
}

func newDashboardCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dashboard, err := get().client.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(dashboard)
		},
	}
}

func newReportCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the portfolio report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := get().client.Report(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
}

func newBiometricCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "biometric",
		Short: "Manage biometric login for this device",
	}

	var email string
	var companyID int64
	enable := &cobra.Command{
		Use:   "enable",
		Short: "Register this device for biometric login (requires an active session)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := get().flow.Enable(cmd.Context(), email, companyID); err != nil {
				return err
			}
			fmt.Println("biometric login enabled")
			return nil
		},
	}
	enable.Flags().StringVar(&email, "email", "", "account email")
	enable.Flags().Int64Var(&companyID, "company", 0, "company id")
	_ = enable.MarkFlagRequired("email")

	cmd.AddCommand(
		enable,
		&cobra.Command{
			Use:   "disable",
			Short: "Remove the biometric registration from this device",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := get().flow.Disable(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("biometric login disabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "login",
			Short: "Sign in using the stored biometric token",
			RunE: func(cmd *cobra.Command, _ []string) error {
				data, err := get().flow.Login(cmd.Context())
				if err != nil {
					if errors.Is(err, biometric.ErrNotEnabled) {
						fmt.Println("biometric login is not enabled on this device; use `investorctl login`")
						return nil
					}
					return err
				}
				fmt.Printf("signed in as %s (%s)\n", data.User.Name, data.User.Email)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Check server-side enablement for this device",
			RunE: func(cmd *cobra.Command, _ []string) error {
				enabled, err := get().flow.Status(cmd.Context())
				if err != nil {
					if errors.Is(err, biometric.ErrNotEnabled) {
						fmt.Println("not enabled locally")
						return nil
					}
					return err
				}
				fmt.Printf("enabled on server: %t\n", enabled)
				return nil
			},
		},
	)
	return cmd
}

// terminalSensor stands in for the platform biometric sensor: a simple
// confirm prompt on stdin.
type terminalSensor struct{}

func (terminalSensor) Authenticate(_ context.Context, reason string) error {
	answer, err := promptLine(reason + " — confirm? [y/N]: ")
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(answer), "y") {
		return errors.New("cancelled by user")
	}
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printJSON(payload any) error {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

package main

import (
	"fmt"

	"hushhly/app"
	"hushhly/reminder"

	"github.com/spf13/cobra"
)

func newBalanceCmd(open opener) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "balance USER_ID",
		Short: "Show a user's balance and recent transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				bal, err := a.Services.Balance.GetUserBalance(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if limit > 0 && len(bal.Transactions) > limit {
					bal.Transactions = bal.Transactions[:limit]
				}
				return printJSON(cmd.OutOrStdout(), bal)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Number of transactions to show (0 for all)")
	return cmd
}

func newActivityCmd(open opener) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "activity USER_ID",
		Short: "Show a user's activity summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				if pretty {
					summary, err := a.Services.Activity.GetFormattedActivitySummary(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), summary)
				}
				summary, err := a.Services.Activity.GetActivitySummary(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Print display strings instead of raw figures")
	return cmd
}

func newPromoCmd(open opener) *cobra.Command {
	promoCmd := &cobra.Command{Use: "promo", Short: "Promo code operations"}

	validateCmd := &cobra.Command{
		Use:   "validate CODE TIER USER_ID",
		Short: "Validate a promo code for a tier and user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				res, err := a.Services.Promos.Validate(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the default promo codes that are not defined yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				added, err := a.Services.Promos.Seed(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d promo codes\n", added)
				return err
			})
		},
	}

	usageCmd := &cobra.Command{
		Use:   "usage CODE",
		Short: "List redemptions of a promo code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				usages, err := a.Services.Promos.Usage(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), usages)
			})
		},
	}

	promoCmd.AddCommand(validateCmd, seedCmd, usageCmd)
	return promoCmd
}

func newRemindersCmd(open opener) *cobra.Command {
	remindersCmd := &cobra.Command{Use: "reminders", Short: "Meditation reminder operations"}

	dispatchCmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Send every due reminder once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app.App) error {
				d := reminder.NewDispatcher(a.Services.Reminders, a.Notifier(), a.Config.Reminders.Schedule)
				sent, err := d.RunOnce(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "dispatched %d reminders\n", sent)
				return err
			})
		},
	}

	remindersCmd.AddCommand(dispatchCmd)
	return remindersCmd
}

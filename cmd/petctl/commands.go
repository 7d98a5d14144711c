package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"petShop/internal/domain"
	"petShop/internal/usecase"
)

func init() {
	rootCmd.AddCommand(newMigrateCmd(), newItemCmd(), newGrantCmd())
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repo, closeFn, err := openService()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := repo.Migrate(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema applied (%s)\n", repo.Dialect())
			return nil
		},
	}
}

func newItemCmd() *cobra.Command {
	itemCmd := &cobra.Command{Use: "item", Short: "Shop catalog operations"}

	var item domain.Item
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closeFn, err := openService()
			if err != nil {
				return err
			}
			defer closeFn()

			created, err := svc.CreateItem(cmd.Context(), item)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created item %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&item.Name, "name", "n", "", "Item name (required)")
	addCmd.Flags().StringVar(&item.Description, "description", "", "Item description")
	addCmd.Flags().IntVarP(&item.Price, "price", "p", 0, "Price in coins")
	addCmd.Flags().BoolVar(&item.IsFood, "food", false, "Item is food")
	addCmd.Flags().BoolVar(&item.IsToy, "toy", false, "Item is a toy")
	addCmd.Flags().IntVar(&item.HealthIncrease, "health", 0, "Health restored")
	addCmd.Flags().IntVar(&item.HappinessIncrease, "happiness", 0, "Happiness added")
	addCmd.Flags().IntVar(&item.EnergyIncrease, "energy", 0, "Energy restored")
	_ = addCmd.MarkFlagRequired("name")
	itemCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closeFn, err := openService()
			if err != nil {
				return err
			}
			defer closeFn()

			items, err := svc.ListItems(cmd.Context())
			if err != nil {
				return err
			}
			return printItems(cmd.OutOrStdout(), items)
		},
	}
	itemCmd.AddCommand(listCmd)

	return itemCmd
}

func newGrantCmd() *cobra.Command {
	var (
		username string
		amount   int
	)
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Credit coins to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, repo, closeFn, err := openService()
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := repo.GetUserByUsername(cmd.Context(), username)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("%w: %s", usecase.ErrUserNotFound, username)
			}
			if err := svc.Credit(cmd.Context(), user.ID, amount); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "granted %d coins to %s\n", amount, username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "Username (required)")
	cmd.Flags().IntVarP(&amount, "amount", "a", 0, "Coins to add (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func printItems(w io.Writer, items []domain.Item) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tKIND\tPRICE\tHEALTH\tHAPPINESS\tENERGY")
	for _, it := range items {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
			it.ID, it.Name, it.Kind(), it.Price, it.HealthIncrease, it.HappinessIncrease, it.EnergyIncrease)
	}
	return tw.Flush()
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"matchmaking_server/config"
	"matchmaking_server/models"
	"matchmaking_server/services"

	"github.com/spf13/cobra"
)

var (
	userID   string
	imageURL string

	rootCmd = &cobra.Command{
		Use:   "matchctl",
		Short: "Operate on a user's match slots without going through the HTTP API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			return nil
		},
	}

	refillCmd = &cobra.Command{
		Use:   "refill",
		Short: "Top up the user's discovered leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *services.Services) error {
				result, err := svc.Match.TriggerRefill(ctx, userID)
				if err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}

	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Reconcile mutual matches for the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *services.Services) error {
				report, err := svc.Match.SyncReciprocal(ctx, userID)
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	}

	slotsCmd = &cobra.Command{
		Use:   "slots",
		Short: "Print the user's active, chopped and discovered collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc *services.Services) error {
				view, err := svc.Match.GetSlots(ctx, userID)
				if err != nil {
					return err
				}
				return printJSON(view)
			})
		},
	}

	actionCmd = &cobra.Command{
		Use:   "action [targetId] [chat|chop]",
		Short: "Apply chat or chop to a counterpart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.IsValidAction(args[1]) {
				return fmt.Errorf("unknown action %q, want chat or chop", args[1])
			}
			return withServices(cmd.Context(), func(ctx context.Context, svc *services.Services) error {
				result, err := svc.Match.ApplyMatchAction(ctx, userID, args[0], args[1], imageURL)
				if err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "internal user id to operate on")
	actionCmd.Flags().StringVar(&imageURL, "image", "", "image reference to store with the entry")

	rootCmd.AddCommand(refillCmd, syncCmd, slotsCmd, actionCmd)
}

func withServices(ctx context.Context, fn func(context.Context, *services.Services) error) error {
	cfg := config.LoadConfig()
	svc, err := services.NewServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close(context.Background())
	return fn(ctx, svc)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

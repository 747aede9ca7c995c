package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// runsCommand creates the runs command for browsing the run archive.
func (c *CLI) runsCommand() *cobra.Command {
	var mongoURI string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse the run archive",
		Long: `Browse the run archive.

Runs generated with 'generate --archive' are stored in MongoDB with their
parameters and full network JSON. The connection string comes from
--mongo-uri or $NETGEN_MONGO_URI.`,
	}

	cmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "", "archive connection string (default: $NETGEN_MONGO_URI)")

	cmd.AddCommand(c.runsListCommand(&mongoURI))
	cmd.AddCommand(c.runsShowCommand(&mongoURI))
	cmd.AddCommand(c.runsRemoveCommand(&mongoURI))

	return cmd
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand(mongoURI *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := newStore(ctx, *mongoURI)
			if err != nil {
				return fmt.Errorf("connect to archive: %w", err)
			}
			defer st.Close(ctx)

			runs, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("Archive is empty")
				return nil
			}

			for _, run := range runs {
				fmt.Printf("%s  %s\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
				printDetail("tips=%d beta=%g r=%d seed=%d · %d nodes, %d edges",
					run.Params.Tips, run.Params.Beta, run.Params.Reticulations,
					run.Params.Seed, run.NodeCount, run.EdgeCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list (0 = all)")
	return cmd
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand(mongoURI *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print an archived run's network JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := newStore(ctx, *mongoURI)
			if err != nil {
				return fmt.Errorf("connect to archive: %w", err)
			}
			defer st.Close(ctx)

			run, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(run.Network)
				return err
			}
			if err := os.WriteFile(output, run.Network, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printFile(output)
			printNextStep("Render it", fmt.Sprintf("netgen render %s -f svg", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the network JSON to a file")
	return cmd
}

// runsRemoveCommand creates the "runs rm" subcommand.
func (c *CLI) runsRemoveCommand(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm [run-id]",
		Short: "Delete an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := newStore(ctx, *mongoURI)
			if err != nil {
				return fmt.Errorf("connect to archive: %w", err)
			}
			defer st.Close(ctx)

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted run %s", args[0])
			return nil
		},
	}
}

package record

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/cli"
	"github.com/thenoetrevino/embudo/internal/types"
)

// DeleteCmd returns the record delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a record",
		Long:  "Delete a record and its stage history (requires confirmation unless --force or --quiet).",
		Args:  cobra.NoArgs,
		RunE:  runDelete,
	}

	cmd.Flags().String("id", "", "Record ID (required)")
	cli.MarkRequired(cmd, "id")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, _ := cmd.Flags().GetString("id")
	force, _ := cmd.Flags().GetBool("force")
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	rec, err := cliInstance.App.RecordService.GetRecord(ctx, types.RecordID(id))
	if err != nil {
		return formatter.Fail("RECORD_NOT_FOUND", cli.ExitCodeFor(err), err)
	}

	// Ask for confirmation unless forced or in a non-interactive mode
	if !force && !formatter.Quiet && !formatter.JSON {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete record '%s' (%s)? [y/N]: ", rec.Payload.Title, rec.ID)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.RecordService.DeleteRecord(ctx, rec.ID); err != nil {
		return formatter.Fail("DELETE_ERROR", cli.ExitCodeFor(err), err)
	}

	if formatter.JSON {
		return formatter.JSONOut(map[string]any{
			"success": true,
			"id":      id,
		})
	}
	if formatter.Quiet {
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted record '%s'\n", rec.Payload.Title)
	return nil
}

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rebelice/datalist/internal/bookmarks"
	"github.com/rebelice/datalist/internal/config"
)

func newBookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "Manage saved views",
	}

	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openBookmarks()
			if err != nil {
				return err
			}
			all := m.Search(search)
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTAGS\tUSED\tLOCATION")
			for _, b := range all {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", b.Name, strings.Join(b.Tags, ","), b.UsageCount, b.Location)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&search, "search", "", "Only bookmarks matching this text")

	deleteCmd := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openBookmarks()
			if err != nil {
				return err
			}
			if err := m.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted bookmark %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, deleteCmd)
	return cmd
}

func openBookmarks() (*bookmarks.Manager, error) {
	dir, err := config.GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}
	return bookmarks.NewManager(dir)
}

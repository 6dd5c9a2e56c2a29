package cmd

import (
	"context"
	"fmt"

	internalApp "github.com/pulse-beyond/pulse-beyond/internal/app"
	"github.com/pulse-beyond/pulse-beyond/internal/archive"

	"github.com/spf13/cobra"
)

func init() {
	var configPath string

	archiveCommand := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the past-newsletter archive",
	}
	archiveCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	// open reads only the archive path from the config, no database is needed
	open := func() (*archive.Archive, error) {
		path, err := resolveConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg, _, err := internalApp.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		return archive.New(cfg.Archive.Path, bootstrapLogger), nil
	}

	topicsCommand := &cobra.Command{
		Use:   "topics",
		Short: "Print the topic index of recent issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			ctx := context.Background()
			fmt.Fprintf(cmd.OutOrStdout(), "%d issues\n\n", len(a.Issues(ctx)))
			fmt.Fprintln(cmd.OutOrStdout(), a.TopicIndex(ctx))
			return nil
		},
	}

	var title, description, url string
	searchCommand := &cobra.Command{
		Use:   "search --title T [--description D] [--url U]",
		Short: "Find past coverage related to a story",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			out := a.Search(context.Background(), title, description, url)
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no related coverage")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	searchCommand.Flags().StringVar(&title, "title", "", "story title")
	searchCommand.Flags().StringVar(&description, "description", "", "story description")
	searchCommand.Flags().StringVar(&url, "url", "", "story url")

	archiveCommand.AddCommand(topicsCommand, searchCommand)
	rootCmd.AddCommand(archiveCommand)
}

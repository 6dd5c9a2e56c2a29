package cmd

import (
	"context"
	"fmt"

	"github.com/pulse-beyond/pulse-beyond/internal/dto"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type exportFlags struct {
	config  string
	issueID int64
	format  string
	save    bool
}

func init() {
	flags := &exportFlags{}

	exportCommand := &cobra.Command{
		Use:   "export --issue ID [--format txt|md] [--save]",
		Short: "Render an issue as plain-text newsletter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.issueID <= 0 {
				return fmt.Errorf("--issue is required")
			}
			a, err := openApp(flags.config)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					bootstrapLogger.Warn("close app", zap.Error(err))
				}
			}()

			ctx := context.Background()
			if !flags.save {
				text, err := a.ExportService.Preview(ctx, flags.issueID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			// 保存导出记录，并把期刊标记为已导出
			out, err := a.ExportService.Build(ctx, &dto.ExportBuildRequest{IssueID: flags.issueID, Format: flags.format})
			if err != nil {
				return err
			}
			bootstrapLogger.Info("export saved", zap.Int64("exportId", out.ID), zap.String("format", out.Format))
			fmt.Fprintln(cmd.OutOrStdout(), out.Content)
			return nil
		},
	}

	rootCmd.AddCommand(exportCommand)
	fs := exportCommand.Flags()
	fs.StringVarP(&flags.config, "config", "c", "", "config file path")
	fs.Int64Var(&flags.issueID, "issue", 0, "issue id")
	fs.StringVar(&flags.format, "format", "txt", "export format: txt | md")
	fs.BoolVar(&flags.save, "save", false, "store the export and mark the issue exported")
}

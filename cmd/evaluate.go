package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careeroai/careero/internal/advisor"
	"github.com/careeroai/careero/internal/history"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a resume against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		evaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("resume", "r", "", "resume file (.pdf, .txt or .md)")
	evaluateCmd.Flags().StringP("job", "J", "", "job description file (.pdf, .txt or .md)")
	evaluateCmd.MarkFlagRequired("resume")
	evaluateCmd.MarkFlagRequired("job")
}

func evaluate(cmd *cobra.Command) {
	ctx := context.Background()
	s := setup(ctx)

	resume, err := s.readDocument(ctx, cmd.Flag("resume").Value.String())
	if err != nil {
		s.logger.Fatal("reading the resume", zap.Error(err))
	}

	job, err := s.readDocument(ctx, cmd.Flag("job").Value.String())
	if err != nil {
		s.logger.Fatal("reading the job description", zap.Error(err))
	}

	_, eval, err := s.advisor.Evaluate(ctx, history.Workspace{}, advisor.EvaluationRequest{
		Resume:         resume,
		JobDescription: job,
	})
	if err != nil {
		s.logger.Fatal("evaluating the resume", zap.Error(err))
	}

	renderEvaluation(os.Stdout, eval)
}

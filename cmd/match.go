package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/explain"
	"github.com/spigell/resume-matcher/internal/logger"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score one resume against one job posting",
	Long: `Score one resume against one job posting.

The resume is a profile (yaml, json or toml) or a bare pdf, docx, txt or md
document. The job is always a profile. The analysis is printed to stdout as
json; --report prints the detailed explanation report instead.`,
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "resume profile or document")
	matchCmd.Flags().StringP("job", "b", "", "job profile")
	matchCmd.Flags().Bool("report", false, "print the explanation report")

	matchCmd.MarkFlagRequired("resume")
	matchCmd.MarkFlagRequired("job")
}

// setup builds the logger and loads the configuration for a command.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func match(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()

	stack, err := buildStack(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the matcher", zap.Error(err))
	}

	loader := document.Loader{Vocabulary: stack.vocabulary, MaxBytes: config.Server.MaxUploadBytes}

	resume, err := loader.LoadResume(cmd.Flag("resume").Value.String())
	if err != nil {
		logger.Fatal("loading the resume", zap.Error(err))
	}

	job, err := loader.LoadJob(cmd.Flag("job").Value.String())
	if err != nil {
		logger.Fatal("loading the job", zap.Error(err))
	}

	analysis, err := stack.engine.ScoreMatch(ctx, resume, job)
	if err != nil {
		logger.Fatal("scoring the match", zap.Error(err))
	}

	var out any = analysis
	if report, _ := cmd.Flags().GetBool("report"); report {
		out, err = explain.NewReport(analysis, time.Now())
		if err != nil {
			logger.Fatal("building the report", zap.Error(err))
		}
	}

	if err := printJSON(os.Stdout, out); err != nil {
		logger.Fatal("writing the result", zap.Error(err))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/explain"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/ranking"
)

const (
	PromptShowReport    = "Show candidate report"
	PromptShortlist     = "Print shortlist as json"
	PromptFiltersStatus = "Show filters"
	PromptExit          = "Exit"
	PromptBack          = "back"
)

var errExit = errors.New("exit requested")

var rankPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptShortlist, PromptFiltersStatus, PromptExit},
}

var rankCmd = &cobra.Command{
	Use:   "rank [resume files or directories...]",
	Short: "Rank many resumes against one job posting",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rank(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("job", "b", "", "job profile")
	rankCmd.Flags().BoolP("yes", "y", false, "do not open the interactive browser, print the shortlist and exit")
	rankCmd.Flags().Float64("minimum-score", -1, "drop candidates below this overall score (overrides rank.minimum-score)")
	rankCmd.Flags().StringSlice("disable-filter", nil, "filters to disable by name")

	rankCmd.MarkFlagRequired("job")
}

func rank(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	logger, config := setup()

	stack, err := buildStack(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the matcher", zap.Error(err))
	}

	loader := document.Loader{Vocabulary: stack.vocabulary, MaxBytes: config.Server.MaxUploadBytes}

	job, err := loader.LoadJob(cmd.Flag("job").Value.String())
	if err != nil {
		logger.Fatal("loading the job", zap.Error(err))
	}

	paths, err := collectResumePaths(args)
	if err != nil {
		logger.Fatal("collecting resumes", zap.Error(err))
	}

	resumes := make([]matching.Resume, 0, len(paths))
	for _, path := range paths {
		resume, err := loader.LoadResume(path)
		if err != nil {
			logger.Warn("skipping resume", zap.String("path", path), zap.Error(err))
			continue
		}
		resumes = append(resumes, resume)
	}

	if len(resumes) == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes loaded"))
		return
	}

	logger.Info("ranking resumes", zap.Int("count", len(resumes)), zap.String("job", job.Title))

	list, err := ranking.Rank(ctx, stack.engine, job, resumes, ranking.Options{
		Concurrency: config.Rank.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	if minimum, _ := cmd.Flags().GetFloat64("minimum-score"); minimum >= 0 {
		config.Rank.MinimumScore = minimum
	}

	steps := ranking.DefaultFilters()
	disabled, _ := cmd.Flags().GetStringSlice("disable-filter")
	for _, name := range disabled {
		ranking.DisableByName(steps, strings.TrimSpace(name), "disabled by flag")
	}

	list, err = ranking.Run(ctx, &config.Rank, ranking.Deps{Logger: logger}, steps, list)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if list.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		if err := printJSON(os.Stdout, list); err != nil {
			logger.Fatal("writing the shortlist", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := rankPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleRankAction(action, logger, list, steps); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleRankAction(action string, logger *zap.Logger, list *ranking.Shortlist, steps []ranking.Filter) error {
	switch action {
	case PromptShowReport:
		return browseCandidates(list)
	case PromptShortlist:
		return printJSON(os.Stdout, list)
	case PromptFiltersStatus:
		return printJSON(os.Stdout, ranking.Describe(steps))
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func browseCandidates(list *ranking.Shortlist) error {
	for {
		items := make([]string, 0, list.Len()+1)
		for _, c := range list.Items {
			items = append(items, candidateLabel(c))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		report, err := explain.NewReport(list.Items[idx].Analysis, time.Now())
		if err != nil {
			return err
		}
		if err := printJSON(os.Stdout, report); err != nil {
			return err
		}
	}
}

func candidateLabel(c *ranking.Candidate) string {
	name := c.Name
	if name == "" {
		name = c.ResumeID
	}
	return fmt.Sprintf("#%d %s / %.3f / %s", c.Rank, name, c.Overall(), c.Analysis.RoleRecommendation)
}

// collectResumePaths expands directories into the supported files they hold.
func collectResumePaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(arg, entry.Name())
			if _, err := document.FormatOf(path); err == nil || document.IsProfile(path) {
				paths = append(paths, path)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

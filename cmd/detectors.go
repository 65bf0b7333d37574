package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/ranking"
	"github.com/spigell/resume-matcher/internal/skills"
)

var detectorsCmd = &cobra.Command{
	Use:   "detectors",
	Short: "Print the bonus signal detectors, shortlist filters and skills vocabulary in effect",
	Run: func(_ *cobra.Command, _ []string) {
		detectors()
	},
}

func init() {
	rootCmd.AddCommand(detectorsCmd)
}

type effectiveSetup struct {
	Weights   matching.Weights             `json:"weights"`
	Detectors []matching.DetectorStatus    `json:"detectors"`
	Filters   []ranking.Status             `json:"filters"`
	Skills    map[skills.Category][]string `json:"skills"`
}

func detectors() {
	logger, config := setup()

	if err := config.Matching.Weights.Validate(); err != nil {
		logger.Fatal("invalid weights", zap.Error(err))
	}

	steps := ranking.DefaultFilters()
	for _, step := range steps {
		if err := step.Validate(&config.Rank); err != nil {
			logger.Fatal("invalid shortlist settings", zap.String("filter", step.Name()), zap.Error(err))
		}
	}

	vocab := skills.New(config.Skills)

	out := effectiveSetup{
		Weights:   config.Matching.Weights,
		Detectors: matching.DescribeDetectors(matching.DefaultDetectors(config.Matching.Signals)),
		Filters:   ranking.Describe(steps),
		Skills: map[skills.Category][]string{
			skills.Technical: vocab.Names(skills.Technical),
			skills.Soft:      vocab.Names(skills.Soft),
		},
	}

	if err := printJSON(os.Stdout, out); err != nil {
		logger.Fatal("writing the result", zap.Error(err))
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careeroai/careero/internal/artifact"
)

const (
	PromptBack = "back"
	PromptExit = "exit"
)

var workStyles = []string{"I prefer working alone", "I enjoy collaborating in teams", "A mix of both"}

var careersCmd = &cobra.Command{
	Use:   "careers",
	Short: "Suggest career paths and colleges from a short survey",
	Run: func(cmd *cobra.Command, _ []string) {
		careers(cmd)
	},
}

func init() {
	rootCmd.AddCommand(careersCmd)

	careersCmd.Flags().StringSlice("subjects", nil, "strongest subjects, comma separated")
	careersCmd.Flags().Int("score", 75, "approximate class 12th score in percent")
	careersCmd.Flags().StringSlice("interests", nil, "hobbies and interests, comma separated")
	careersCmd.Flags().String("work-style", "", "work style preference (asked interactively when empty)")
	careersCmd.Flags().String("budget", "", "annual college fee budget")
	careersCmd.Flags().Bool("relocate", false, "willing to relocate for college")
	careersCmd.Flags().String("home-state", "", "home state")
	careersCmd.Flags().StringSlice("cities", nil, "preferred cities, comma separated (optional)")
}

func careers(cmd *cobra.Command) {
	ctx := context.Background()
	s := setup(ctx)

	survey, err := surveyFromFlags(cmd)
	if err != nil {
		s.logger.Fatal("reading the survey", zap.Error(err))
	}

	set, err := s.advisor.SuggestCareers(ctx, survey)
	if err != nil {
		s.logger.Fatal("suggesting careers", zap.Error(err))
	}

	if err := browseCareers(set); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		s.logger.Fatal("exiting", zap.Error(err))
	}
}

func surveyFromFlags(cmd *cobra.Command) (artifact.Survey, error) {
	flags := cmd.Flags()

	subjects, _ := flags.GetStringSlice("subjects")
	score, _ := flags.GetInt("score")
	interests, _ := flags.GetStringSlice("interests")
	workStyle, _ := flags.GetString("work-style")
	budget, _ := flags.GetString("budget")
	relocate, _ := flags.GetBool("relocate")
	homeState, _ := flags.GetString("home-state")
	cities, _ := flags.GetStringSlice("cities")

	if workStyle == "" {
		sel := promptui.Select{Label: "How do you prefer to work?", Items: workStyles}
		_, picked, err := sel.Run()
		if err != nil {
			return artifact.Survey{}, err
		}
		workStyle = picked
	}

	survey := artifact.Survey{
		Subjects:  subjects,
		Score:     score,
		Interests: interests,
		WorkStyle: workStyle,
		Budget:    budget,
		Relocate:  relocate,
		HomeState: homeState,
		Cities:    cities,
	}

	return survey, survey.Validate()
}

func browseCareers(set *artifact.CareerSuggestionSet) error {
	fmt.Fprintln(os.Stdout, "Here are your top career path suggestions!")

	for {
		sel := promptui.Select{
			Label: "Choose a career and press ENTER",
			Items: append(set.Names(), PromptExit),
		}

		idx, picked, err := sel.Run()
		if err != nil {
			return err
		}
		if picked == PromptExit {
			return nil
		}

		renderCareer(os.Stdout, set.Careers[idx])
	}
}

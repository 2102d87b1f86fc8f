package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careeroai/careero/internal/advisor"
	"github.com/careeroai/careero/internal/ai"
	"github.com/careeroai/careero/internal/artifact"
	"github.com/careeroai/careero/internal/history"
)

const (
	PromptAsk        = "Ask a question"
	PromptEvaluate   = "Evaluate resume against this job"
	PromptSwitchJob  = "Switch to another job description"
	PromptHistory    = "History"
	PromptTranscript = "Show conversation"
)

var errExit = errors.New("exit requested")

var chatPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptAsk, PromptEvaluate, PromptSwitchJob, PromptHistory, PromptTranscript, PromptExit},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interview preparation chat about a resume and a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("resume", "r", "", "resume file (.pdf, .txt or .md)")
	chatCmd.Flags().StringP("job", "J", "", "job description file (.pdf, .txt or .md)")
	chatCmd.MarkFlagRequired("resume")
	chatCmd.MarkFlagRequired("job")
}

type chatState struct {
	*session
	resume string
	ws     history.Workspace
}

func chat(cmd *cobra.Command) {
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

	state := &chatState{session: s, resume: resume, ws: history.Workspace{Key: job, Kind: history.KindJob}}

	for {
		_, action, err := chatPrompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			s.logger.Fatal("exiting", zap.Error(err))
		}

		if err := state.handle(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			s.logger.Error("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func (c *chatState) handle(ctx context.Context, action string) error {
	switch action {
	case PromptAsk:
		return c.ask(ctx)
	case PromptEvaluate:
		ws, eval, err := c.advisor.Evaluate(ctx, c.ws, advisor.EvaluationRequest{Resume: c.resume, JobDescription: c.ws.Key})
		c.ws = ws
		if err != nil {
			return err
		}
		renderEvaluation(os.Stdout, eval)
		return nil
	case PromptSwitchJob:
		return c.switchJob(ctx)
	case PromptHistory:
		return c.history()
	case PromptTranscript:
		c.transcript()
		return nil
	case PromptExit:
		c.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (c *chatState) ask(ctx context.Context) error {
	question := promptui.Prompt{
		Label: "Your question",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("question must not be empty")
			}
			return nil
		},
	}

	text, err := question.Run()
	if err != nil {
		return err
	}

	ws, _, err := c.advisor.Chat(ctx, c.ws, advisor.ChatRequest{Resume: c.resume, Question: text}, os.Stdout)
	c.ws = ws
	fmt.Fprintln(os.Stdout)
	return err
}

func (c *chatState) switchJob(ctx context.Context) error {
	path := promptui.Prompt{Label: "Job description file"}

	file, err := path.Run()
	if err != nil {
		return err
	}

	job, err := c.readDocument(ctx, strings.TrimSpace(file))
	if err != nil {
		return err
	}

	c.ws = c.advisor.Switch(c.ws, job)
	c.logger.Info("switched job description", zap.Int("conversation_length", c.ws.Session.Len()))
	return nil
}

func (c *chatState) history() error {
	// flush so the active subject is listed too
	c.ws = c.advisor.Switch(c.ws, c.ws.Key)

	store := c.advisor.Store()
	if store.Len() == 0 {
		c.logger.Info("history is empty")
		return nil
	}

	keys := make([]string, 0, store.Len())
	items := make([]string, 0, store.Len()+1)
	for subject := range store.Subjects() {
		if subject.Kind != history.KindJob {
			continue
		}
		keys = append(keys, subject.Key)
		items = append(items, subject.Label())
	}

	sel := promptui.Select{Label: "Choose a record and press ENTER", Items: append(items, PromptBack)}
	idx, picked, err := sel.Run()
	if err != nil {
		return err
	}
	if picked == PromptBack {
		return nil
	}

	c.ws = c.advisor.Switch(c.ws, keys[idx])
	if c.ws.Artifact != nil {
		eval, err := artifact.DecodeEvaluation(c.ws.Artifact)
		if err != nil {
			return err
		}
		renderEvaluation(os.Stdout, eval)
	}
	c.transcript()
	return nil
}

func (c *chatState) transcript() {
	var lines []string
	for _, m := range c.ws.Session.Transcript() {
		who := "You"
		if m.Role == ai.RoleAssistant {
			who = "Advisor"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", who, m.Content))
	}
	if len(lines) == 0 {
		lines = append(lines, "No conversation yet.")
	}
	renderTranscript(os.Stdout, lines)
}

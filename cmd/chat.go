package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nunajera/mistral-chat/internal"
	"github.com/nunajera/mistral-chat/internal/export"
	"github.com/nunajera/mistral-chat/internal/session"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const chatHelp = `Commands:
  /models                  list models
  /model <id or label>     switch model
  /file <path> [question]  summarize a document, or ask about it
  /export [md|json|yaml]   print the conversation
  /reset                   clear the conversation
  /quit                    leave`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cfg, offline, nil)
		if err != nil {
			return err
		}
		s := session.New("terminal", gw, cfg.Mistral.DefaultModel)
		return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), s, markdownRenderer())
	},
}

func init() {
	chatCmd.Flags().BoolVar(&offline, "offline", false, "answer with the mock provider instead of calling Mistral")
	rootCmd.AddCommand(chatCmd)
}

// markdownRenderer renders assistant replies for the terminal, falling back
// to the raw text if glamour cannot be set up.
func markdownRenderer() func(string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return func(s string) string { return s }
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return out
	}
}

// runChat reads one line at a time until EOF or /quit. Failed operations are
// reported and the loop continues.
func runChat(ctx context.Context, in io.Reader, out io.Writer, s *session.Session, render func(string) string) error {
	fmt.Fprintln(out, hintStyle.Render(fmt.Sprintf("model: %s, type /help for commands", s.Model())))
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, userStyle.Render("you> "))
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := chatCommand(ctx, out, s, line, render); quit {
				return nil
			}
			continue
		}
		reply, err := s.Submit(ctx, line)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
			continue
		}
		printReply(out, reply.Content, render)
	}
}

func chatCommand(ctx context.Context, out io.Writer, s *session.Session, line string, render func(string) string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch name {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(out, chatHelp)
	case "/models":
		for _, m := range internal.Models {
			marker := "  "
			if m.ID == s.Model() {
				marker = "* "
			}
			fmt.Fprintf(out, "%s%-20s %s\n", marker, m.Label, m.ID)
		}
	case "/model":
		id := rest
		if byLabel, ok := internal.ModelByLabel(rest); ok {
			id = byLabel
		}
		if err := s.SelectModel(id); err != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
			return false
		}
		fmt.Fprintln(out, hintStyle.Render("model: "+s.Model()))
	case "/reset":
		s.Reset()
		fmt.Fprintln(out, hintStyle.Render("conversation cleared"))
	case "/file":
		path, question, _ := strings.Cut(rest, " ")
		if path == "" {
			fmt.Fprintln(out, errorStyle.Render("usage: /file <path> [question]"))
			return false
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
			return false
		}
		res, err := s.SubmitFile(ctx, session.Upload{
			Name:      filepath.Base(path),
			MediaType: mime.TypeByExtension(filepath.Ext(path)),
			Data:      data,
		}, question)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
			return false
		}
		if res.Truncated {
			fmt.Fprintln(out, hintStyle.Render("document was truncated before sending"))
		}
		printReply(out, res.Reply.Content, render)
	case "/export":
		exp, err := export.ForFormat(rest)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
			return false
		}
		t := &export.Transcript{Session: s.ID, Model: s.Model(), ExportedAt: time.Now().UTC(), Messages: s.History()}
		if err := exp.Export(t, out); err != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
		}
	default:
		fmt.Fprintln(out, errorStyle.Render("unknown command "+name+", try /help"))
	}
	return false
}

func printReply(out io.Writer, text string, render func(string) string) {
	fmt.Fprintln(out, assistantStyle.Render("assistant>"))
	fmt.Fprintln(out, render(text))
}

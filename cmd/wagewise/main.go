package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wagewise/wagewise/extractor"
	apperrors "github.com/wagewise/wagewise/internal/errors"
	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/server"
	"github.com/wagewise/wagewise/server/ai"
	"github.com/wagewise/wagewise/server/knowledge"
	"github.com/wagewise/wagewise/server/pipeline"
	"github.com/wagewise/wagewise/server/stats"
	"github.com/wagewise/wagewise/store"
	"github.com/wagewise/wagewise/store/db"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "wagewise",
	Short: "US minimum wage question service",
	Long:  "wagewise answers questions about US minimum wage law from a dimensional wage database and a topic knowledge base.",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pipe, st, prof, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		srv, err := server.NewServer(ctx, prof, st, pipe)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(ctx)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			srv.Shutdown(context.Background())
			return nil
		}
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question, or start an interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pipe, st, _, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) > 0 {
			askOnce(ctx, pipe, strings.Join(args, " "))
			return nil
		}
		return interactive(ctx, pipe, st)
	},
}

var (
	extractURL      string
	extractCategory string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Load the published minimum-wage table into the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		_, st, _, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		inserted, err := extractor.New(st).Run(ctx, extractURL, extractCategory)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d wage facts.\n", inserted)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every pipeline component",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pipe, st, _, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		failed := false
		for _, status := range pipe.CheckComponents(ctx) {
			mark := "OK  "
			if !status.OK {
				mark = "FAIL"
				if status.Name != "llm" {
					failed = true
				}
			}
			fmt.Printf("%s %-10s %s\n", mark, status.Name, status.Detail)
		}
		if failed {
			return fmt.Errorf("component check failed")
		}
		return nil
	},
}

// bootstrap loads configuration and wires the store, LLM, knowledge
// retriever and pipeline.
func bootstrap(ctx context.Context) (*pipeline.Pipeline, *store.Store, *profile.Profile, error) {
	prof := &profile.Profile{Version: version}
	prof.FromEnv()
	if err := prof.Validate(); err != nil {
		return nil, nil, nil, err
	}
	setupLogger(prof)

	driver, err := db.NewDBDriver(prof)
	if err != nil {
		return nil, nil, nil, err
	}
	st := store.New(driver, prof)
	if err := st.Migrate(ctx); err != nil {
		return nil, nil, nil, err
	}

	var llm pipeline.LLM
	if prof.IsAIEnabled() {
		provider, err := ai.NewProvider(&ai.Config{
			BaseURL:   prof.AIBaseURL,
			APIKey:    prof.AIAPIKey,
			ChatModel: prof.AIChatModel,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		llm = provider
	} else {
		slog.Info("AI is disabled, answering from data only")
	}

	retriever, err := knowledge.NewRetriever(prof, st)
	if err != nil {
		return nil, nil, nil, err
	}

	pipe, err := pipeline.New(prof, st, llm, retriever, slog.Default())
	if err != nil {
		return nil, nil, nil, err
	}
	return pipe, st, prof, nil
}

func setupLogger(prof *profile.Profile) {
	level := slog.LevelInfo
	if prof.IsDev() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func askOnce(ctx context.Context, pipe *pipeline.Pipeline, question string) {
	answer, err := pipe.Ask(ctx, question, "cli")
	if err != nil {
		if pErr, ok := err.(*apperrors.PipelineError); ok {
			fmt.Println(pErr.FriendlyMessage())
		} else {
			fmt.Println("Something went wrong while answering your question.")
		}
		slog.Debug("question failed", "error", err)
		return
	}

	fmt.Println(answer.Text)
	fmt.Printf("\n[route=%s", answer.Route)
	if answer.Topic != "" {
		fmt.Printf(" topic=%q", answer.Topic)
	}
	fmt.Printf(" confidence=%.2f %dms]\n", answer.Confidence, answer.DurationMs)
}

// interactive runs the read-answer loop. "stats" prints usage statistics,
// "exit" or "quit" leaves.
func interactive(ctx context.Context, pipe *pipeline.Pipeline, st *store.Store) error {
	collector := stats.NewCollector(st)
	collector.Start(ctx)
	defer collector.Stop()

	fmt.Printf("wagewise %s interactive session. Ask about US minimum wage; 'stats' for usage, 'exit' to leave.\n", version)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "stats":
			fmt.Println(collector.GetStats().GetSummary())
		default:
			askOnce(ctx, pipe, line)
		}
	}
	return scanner.Err()
}

func main() {
	extractCmd.Flags().StringVar(&extractURL, "url", extractor.DefaultSourceURL, "source page for the wage table")
	extractCmd.Flags().StringVar(&extractCategory, "category", store.CategoryStandard, "wage category to load")

	rootCmd.AddCommand(serveCmd, askCmd, extractCmd, checkCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

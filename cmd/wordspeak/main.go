package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/wordspeak/internal/cli"
	"codeberg.org/snonux/wordspeak/internal/processor"
	"codeberg.org/snonux/wordspeak/internal/study"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	var proc *processor.Processor
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		settings, err := cli.LoadSettings()
		if err != nil {
			return err
		}
		logger := cli.SetupLogger(settings.LogLevel, os.Stderr)

		proc, err = processor.NewProcessor(settings, logger)
		if err != nil {
			return err
		}
		proc.SetOutput(cmd.OutOrStdout())
		return nil
	}

	// Serving the study API is the default
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return proc.RunServer(cmd.Context())
	}

	rootCmd.AddCommand(
		serveCommand(&proc),
		wordsCommand(&proc),
		speakCommand(&proc),
		quizCommand(&proc),
		cardsCommand(&proc),
		prefetchCommand(&proc),
		exportCommand(&proc),
		cacheCommand(&proc),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func serveCommand(proc **processor.Processor) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the study API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*proc).RunServer(cmd.Context())
		},
	}
}

func wordsCommand(proc **processor.Processor) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Print the loaded word list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := (*proc).LoadWords(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(words)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, w := range words {
				fmt.Fprintf(tw, "%s\t%s\n", w.En, w.Ko)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d words, %d quiz-ready\n", len(words), len(words.Eligible()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func speakCommand(proc **processor.Processor) *cobra.Command {
	return &cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize text into the cache and print the audio file path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := (*proc).Speak(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			state := "synthesized"
			if asset.Cached {
				state = "cached"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", asset.Path, state)
			return nil
		},
	}
}

func quizCommand(proc **processor.Processor) *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take a word quiz in the terminal",
		Long: `Shows the korean meaning of a word and asks for the english word.
Answer with the word itself or the number of a choice. Sizes 25, 50 and
100 are the usual rounds; fewer questions are asked when fewer words
have both sides filled in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := (*proc).LoadWords(cmd.Context())
			if err != nil {
				return err
			}

			quiz, err := study.NewQuiz(words, size, rand.New(rand.NewSource(time.Now().UnixNano())))
			if err != nil {
				return err
			}

			return runQuiz(cmd.InOrStdin(), cmd.OutOrStdout(), quiz)
		},
	}
	cmd.Flags().IntVarP(&size, "size", "n", study.QuizSizes[0], "Number of questions (25, 50 or 100)")
	return cmd
}

func cardsCommand(proc **processor.Processor) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "Browse the word list as flashcards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			words, err := (*proc).LoadWords(ctx)
			if err != nil {
				return err
			}

			speak := func(text string) (string, error) {
				asset, err := (*proc).Speak(ctx, text)
				if err != nil {
					return "", err
				}
				return asset.Path, nil
			}
			return runCards(cmd.InOrStdin(), cmd.OutOrStdout(), study.NewDeck(words), speak)
		},
	}
}

func prefetchCommand(proc **processor.Processor) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "prefetch",
		Short: "Synthesize every english word into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := (*proc).Prefetch(cmd.Context(), concurrency)
			return err
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "Number of parallel syntheses")
	return cmd
}

func exportCommand(proc **processor.Processor) *cobra.Command {
	opts := processor.AnkiOptions{DeckName: "English Vocabulary"}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate an Anki import file with pronunciation audio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.OutputDir == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to get home directory: %w", err)
				}
				opts.OutputDir = home
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generating Anki import file...\n")
			path, err := (*proc).GenerateAnkiFile(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Anki file created: %s\n", path)
			if opts.CSV {
				fmt.Fprintf(cmd.OutOrStdout(), "Copy the audio files from %s into Anki's collection.media folder.\n",
					filepath.Clean((*proc).Gateway().Dir()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "Output directory (default is the home directory)")
	cmd.Flags().StringVar(&opts.DeckName, "deck-name", opts.DeckName, "Deck name for APKG export")
	cmd.Flags().BoolVar(&opts.CSV, "csv", false, "Write a CSV file instead of an APKG package")
	cmd.Flags().BoolVar(&opts.Headers, "headers", false, "Include a header row in CSV output")
	return cmd
}

func cacheCommand(proc **processor.Processor) *cobra.Command {
	return &cobra.Command{
		Use:   "cache",
		Short: "Show audio cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := (*proc).CacheStats()
			return err
		},
	}
}

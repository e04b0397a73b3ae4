package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/agrisense/cropdoc/internal/diagnosis"
	"github.com/agrisense/cropdoc/internal/history"
	"github.com/agrisense/cropdoc/internal/model"
)

var exampleQueries = []string{
	"My apple tree has velvety olive-green spots",
	"How to treat powdery mildew on grapes?",
	"Rice plants showing yellow patches - what disease?",
	"White cotton-like masses on apple twigs - help!",
	"Tomato plants wilting with brown spots",
}

func consoleCmd() *cli.Command {
	flags := append(commonModelFlags(), samplingFlags()...)
	flags = append(flags, historyFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "console",
		Usage: "Interactive diagnosis console",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := loadConfig()
			applyCommonConfig(c, cfg)
			log := newLogger()

			gen := model.New(model.Config{
				ModelPath:   modelPath,
				ContextSize: int(contextSize),
				GPULayers:   int(gpuLayers),
			}, log)
			defer func() { _ = gen.Close() }()
			if err := gen.Load(ctx); err != nil {
				log.Warn("model unavailable", "error", err)
			}

			hist := history.NewStore(int(historyLimit))
			service := diagnosis.NewService(gen, model.Params{
				MaxTokens:     int(maxTokens),
				Temperature:   temperature,
				TopP:          topP,
				RepeatPenalty: repeatPenalty,
			}, log)
			sessionID := uuid.NewString()

			fmt.Println("Crop disease chatbot console. Commands: help, history, status, clear, exit.")

			for {
				input, err := readInteractiveLine("You: ")
				if errors.Is(err, io.EOF) {
					fmt.Println("Goodbye!")
					return nil
				}
				if err != nil {
					return err
				}
				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}

				switch strings.ToLower(input) {
				case "exit":
					fmt.Println("Goodbye!")
					return nil
				case "help":
					fmt.Println("\nExample queries:")
					for _, ex := range exampleQueries {
						fmt.Printf("  - %s\n", ex)
					}
					fmt.Println()
					continue
				case "status":
					st := gen.Status()
					fmt.Printf("\nModel status:\n  loaded: %v\n  device: %s\n  gpu_available: %v\n  gpu_memory: %s\n\n",
						st.Loaded, st.Device, st.GPUAvailable, st.GPUMemory)
					continue
				case "history":
					printRecentHistory(hist.Get(sessionID))
					continue
				case "clear":
					hist.Clear(sessionID)
					fmt.Println("History cleared")
					continue
				}

				// Validate up front so short commands and typos fail fast
				// instead of waiting on generation.
				if err := diagnosis.Validate(input); err != nil {
					fmt.Printf("! %s\n\n", err)
					continue
				}

				res := service.Diagnose(ctx, input)
				if res.Success {
					fmt.Printf("\nBot: %s\n\n", res.Response)
					if enableHistory {
						hist.AppendExchange(sessionID, input, res.Response)
					}
				} else {
					fmt.Printf("\nError: %s\n\n", res.Error)
				}
			}
		},
	}
}

func printRecentHistory(msgs []history.Message) {
	if len(msgs) == 0 {
		fmt.Println("(No history yet)")
		return
	}
	if len(msgs) > 5 {
		msgs = msgs[len(msgs)-5:]
	}
	fmt.Println("\nRecent interactions:")
	for _, m := range msgs {
		fmt.Printf("  [%s]: %s\n", m.Role, truncateContent(m.Content, 60))
	}
	fmt.Println()
}

// truncateContent shortens display text to limit characters, never cutting
// inside a UTF-8 sequence.
func truncateContent(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

package main

import "github.com/urfave/cli/v3"

var (
	modelPath     string
	dataPath      string
	contextSize   int64
	gpuLayers     int64
	maxTokens     int64
	temperature   float64
	topP          float64
	repeatPenalty float64
	historyLimit  int64
	enableHistory bool
	enableAuth    bool
	logLevel      string
	logFormat     string
)

func commonModelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "path to GGUF model artifact",
			Destination: &modelPath,
		},
		&cli.StringFlag{
			Name:        "data",
			Usage:       "path to crop dataset CSV (informational, not used by the pipeline)",
			Destination: &dataPath,
		},
		&cli.Int64Flag{
			Name:        "max-context",
			Aliases:     []string{"ctx"},
			Usage:       "max context length in tokens",
			Value:       2048,
			Destination: &contextSize,
		},
		&cli.Int64Flag{
			Name:        "gpu-layers",
			Usage:       "number of layers to offload to GPU (0 = CPU only)",
			Destination: &gpuLayers,
		},
	}
}

func samplingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "max-tokens",
			Aliases:     []string{"n"},
			Usage:       "maximum tokens to generate per diagnosis",
			Value:       256,
			Destination: &maxTokens,
		},
		&cli.Float64Flag{
			Name:        "temp",
			Aliases:     []string{"temperature", "t"},
			Usage:       "sampling temperature",
			Value:       0.7,
			Destination: &temperature,
		},
		&cli.Float64Flag{
			Name:        "top-p",
			Aliases:     []string{"top_p"},
			Usage:       "top-p sampling parameter",
			Value:       0.95,
			Destination: &topP,
		},
		&cli.Float64Flag{
			Name:        "repeat-penalty",
			Aliases:     []string{"repeat_penalty"},
			Usage:       "repetition penalty (1.0 = disabled)",
			Value:       1.1,
			Destination: &repeatPenalty,
		},
	}
}

func historyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "history-limit",
			Usage:       "max messages kept per session",
			Value:       100,
			Destination: &historyLimit,
		},
		&cli.BoolFlag{
			Name:        "enable-history",
			Usage:       "keep per-session conversation history",
			Value:       true,
			Destination: &enableHistory,
		},
		&cli.BoolFlag{
			Name:        "enable-auth",
			Usage:       "accept API keys (reserved; not enforced)",
			Destination: &enableAuth,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
	}
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/hansard"
	"github.com/poiesic/hansard/ai"
	"github.com/poiesic/hansard/fetch"
	"github.com/poiesic/hansard/ingest"
)

func main() {
	app := &cli.App{
		Name:  "hansard",
		Usage: "Legislative transcript ingestion and archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest one or more sessions by identifier",
				ArgsUsage: "SESSION_ID [SESSION_ID...]",
				Action:    ingestCommand,
				Flags: append(archiveFlags(),
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "Chat completion service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "ai-model",
						Usage: "Extraction model name",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:    "ai-token",
						Usage:   "Chat completion API token",
						EnvVars: []string{"HANSARD_AI_TOKEN"},
						Value:   "none",
					},
					&cli.IntFlag{
						Name:  "requests-per-minute",
						Usage: "Ceiling on generation calls per rolling minute",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Maximum generation attempts per document",
						Value: 3,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of sessions processed in parallel (0 = sequential)",
						Value: 0,
					},
				),
			},
			{
				Name:   "status",
				Usage:  "List stored sessions with their statement counts",
				Action: statusCommand,
				Flags:  archiveFlags(),
			},
			{
				Name:   "placeholders",
				Usage:  "List speakers pending registry reconciliation",
				Action: placeholdersCommand,
				Flags:  archiveFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// archiveFlags are the flags every command needs to open the archive.
func archiveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "registry-url",
			Usage:    "Registry API root URL",
			EnvVars:  []string{"HANSARD_REGISTRY_URL"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "registry-key",
			Usage:    "Registry API key",
			EnvVars:  []string{"HANSARD_REGISTRY_KEY"},
			Required: true,
		},
		&cli.DurationFlag{
			Name:  "fetch-timeout",
			Usage: "Per-request timeout for registry calls",
			Value: 30 * time.Second,
		},
	}
}

func openArchive(c *cli.Context, opts ...hansard.ArchiveOption) (*hansard.Archive, error) {
	fetchConfig := fetch.NewConfig(
		c.String("registry-url"),
		c.String("registry-key"),
		fetch.WithTimeout(c.Duration("fetch-timeout")),
	)
	archive, err := hansard.NewArchive(c.String("db"), fetchConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return archive, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	sessionIDs := c.Args().Slice()
	if len(sessionIDs) == 0 {
		return fmt.Errorf("at least one session identifier is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithModel(c.String("ai-model")),
		ai.WithToken(c.String("ai-token")),
		ai.WithRequestsPerMinute(c.Int("requests-per-minute")),
		ai.WithMaxAttempts(c.Int("max-attempts")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	archive, err := openArchive(c, hansard.WithAIConfig(aiConfig))
	if err != nil {
		return err
	}
	defer archive.Close()

	var pipelineOpts []ingest.Option
	workers := c.Int("workers")
	if workers <= 1 {
		pipelineOpts = append(pipelineOpts, ingest.WithQueue(&ingest.InlineQueue{}))
	} else {
		queue, err := ingest.NewPoolQueue(workers)
		if err != nil {
			return fmt.Errorf("failed to create worker pool: %w", err)
		}
		pipelineOpts = append(pipelineOpts, ingest.WithQueue(queue))
	}

	pipeline, err := archive.NewPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	reports, err := pipeline.IngestSessions(ctx, sessionIDs...)
	for _, sessionID := range sessionIDs {
		report, ok := reports[sessionID]
		if !ok {
			fmt.Fprintf(os.Stderr, "%s: failed\n", sessionID)
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: %d segments, %d statements, %d bills, %d votes",
			sessionID, report.Segments, report.Statements, report.Bills, report.Votes)
		if report.Placeholders > 0 {
			fmt.Fprintf(os.Stderr, ", %d unresolved speakers", report.Placeholders)
		}
		if report.LowConfidence {
			fmt.Fprint(os.Stderr, " (low confidence)")
		}
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return fmt.Errorf("ingestion finished with errors: %w", err)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	pipeline, err := archive.NewPipeline(ingest.WithQueue(&ingest.InlineQueue{}))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	statuses, err := pipeline.SessionStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	for _, status := range statuses {
		attempt := "never"
		if !status.Session.LastAttemptAt.IsZero() {
			attempt = status.Session.LastAttemptAt.Format(time.RFC3339)
		}
		fmt.Printf("%s\t%s\t%s\t%d statements\tlast attempt %s\n",
			status.Session.Id,
			status.Session.Date.Format("2006-01-02"),
			status.Session.Committee,
			status.Statements,
			attempt)
	}
	return nil
}

func placeholdersCommand(c *cli.Context) error {
	ctx := context.Background()

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	speakers, err := archive.Store().Speakers.ListPlaceholders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list placeholders: %w", err)
	}

	for _, speaker := range speakers {
		fmt.Printf("%s\t%s\n", speaker.Id, speaker.Name)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

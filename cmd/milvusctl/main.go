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
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/milvusprovider"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the CLI. extra options are applied to every provider the commands open.
func newApp(extra ...milvusprovider.Option) *cli.App {
	cmds := &commands{extra: extra}

	return &cli.App{
		Name:  "milvusctl",
		Usage: "Manage Milvus connections and ingest records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the BadgerDB connection registry",
				Value:   defaultRegistryPath(),
				EnvVars: []string{"MILVUSCTL_DB"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "connections",
				Usage: "Manage the connection registry",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Add or replace a connection",
						Action: cmds.addConnection,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Connection identifier",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "uri",
								Usage:    "Milvus endpoint, e.g. http://localhost:19530",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "login",
								Usage: "User name (omit for no login)",
							},
							&cli.StringFlag{
								Name:  "password",
								Usage: "Password (omit for no password)",
							},
							&cli.StringFlag{
								Name:  "extra",
								Usage: `Extras as a JSON object, e.g. {"db_name":"docs","timeout":5}`,
							},
							&cli.StringFlag{
								Name:  "description",
								Usage: "Free-form description",
							},
						},
					},
					{
						Name:      "get",
						Usage:     "Show a connection",
						ArgsUsage: "<id>",
						Action:    cmds.getConnection,
					},
					{
						Name:   "list",
						Usage:  "List stored connections",
						Action: cmds.listConnections,
					},
					{
						Name:      "delete",
						Usage:     "Delete connections",
						ArgsUsage: "<id>...",
						Action:    cmds.deleteConnections,
					},
					{
						Name:      "import",
						Usage:     "Import connections from a YAML file",
						ArgsUsage: "<file>",
						Action:    cmds.importConnections,
					},
					{
						Name:   "export",
						Usage:  "Export stored connections as YAML",
						Action: cmds.exportConnections,
					},
					{
						Name:      "test",
						Usage:     "Connect to Milvus and run a validation call",
						ArgsUsage: "[id]",
						Action:    cmds.testConnections,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "all",
								Usage: "Test every stored connection",
							},
							&cli.IntFlag{
								Name:  "concurrency",
								Usage: "Maximum connections tested at once with --all",
								Value: 4,
							},
							&cli.DurationFlag{
								Name:  "timeout",
								Usage: "Deadline for each connection test",
								Value: 10 * time.Second,
							},
						},
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Insert records from a JSON file into a collection",
				Action: cmds.ingest,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "conn",
						Usage: "Connection identifier",
						Value: "milvus_default",
					},
					&cli.StringFlag{
						Name:     "collection",
						Aliases:  []string{"c"},
						Usage:    "Target collection",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Usage:    "JSON file holding one record object or an array of records (- for stdin)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "partition",
						Usage: "Target partition",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Insert timeout, overriding the connection timeout",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Split the records into inserts of at most N rows (0 inserts everything at once)",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Maximum concurrent inserts with --batch-size",
						Value: 4,
					},
					&cli.StringFlag{
						Name:  "embed-field",
						Usage: "Text field to embed before inserting",
					},
					&cli.StringFlag{
						Name:  "vector-field",
						Usage: "Vector field receiving the embedding of --embed-field; numeric arrays under it decode as float vectors",
						Value: "vector",
					},
					&cli.BoolFlag{
						Name:  "normalize",
						Usage: "Scale embeddings to unit length",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
				},
			},
		},
	}
}

func defaultRegistryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "milvusctl"
	}
	return filepath.Join(dir, "milvusctl")
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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

// Copyright (c) 2026, winsock-http authors.  All rights reserved.
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

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/winsock-http/wsbuild/pkg/header"
	"github.com/winsock-http/wsbuild/pkg/history"
	"github.com/winsock-http/wsbuild/pkg/serializer"
)

// historyDoc is the json/yaml form of the history listing.
type historyDoc struct {
	header.Header `json:",inline" yaml:",inline"`

	Entries []history.Entry `json:"entries" yaml:"entries"`
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "history",
		EnableShellCompletion: true,
		Usage:                 "List recorded generate, configure, and build phases",
		Description: `Lists invocations recorded in the local history database, newest first.
Each generate, configure, and build phase is one row; rows of the same
create run share an invocation ID.

# Examples

  wsbuild history
  wsbuild history --limit 5 --format json`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   20,
				Usage:   "Maximum number of entries (0 for all)",
			},
			outputFlag(),
			formatFlag(serializer.FormatTable),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			store, err := history.Open(ctx, cmd.String("history-db"))
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(ctx, int(cmd.Int("limit")))
			if err != nil {
				return err
			}

			if format == serializer.FormatTable && cmd.String("output") == "" {
				return writeHistoryTable(cmd.Root().Writer, entries)
			}

			doc := historyDoc{
				Header: *header.New(
					header.WithKind(header.KindHistory),
					header.WithAPIVersion(header.APIVersionV1),
					header.WithMetadata(header.MetadataToolVersion, version),
				),
				Entries: entries,
			}
			ser := serializerFor(format, cmd.String("output"))
			defer closeWriter(ser)
			return ser.Serialize(ctx, doc)
		},
	}
}

func writeHistoryTable(w io.Writer, entries []history.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tPHASE\tSTATUS\tEXIT\tDURATION\tRECIPE\tSETTINGS")
	for _, e := range entries {
		status := success.Sprint(e.Status)
		if e.Status == history.StatusFailed {
			status = failure.Sprint(e.Status)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s/%s\t%s\n",
			e.ID,
			e.StartedAt.Local().Format(time.DateTime),
			e.Phase,
			status,
			e.ExitCode,
			e.Duration.Round(time.Millisecond),
			e.Recipe, e.Version,
			e.Settings,
		)
	}
	return tw.Flush()
}

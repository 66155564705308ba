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
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/winsock-http/wsbuild/pkg/builder"
	"github.com/winsock-http/wsbuild/pkg/cmake"
	"github.com/winsock-http/wsbuild/pkg/generator/result"
)

var (
	headline = color.New(color.FgCyan, color.Bold)
	success  = color.New(color.FgGreen)
	failure  = color.New(color.FgRed)
	label    = color.New(color.Faint)
)

func printGenerated(w io.Writer, g *builder.Generated) {
	headline.Fprintf(w, "%s/%s %s\n", g.Recipe, g.Version, g.Settings.String())
	for _, n := range g.Options.Names() {
		fmt.Fprintf(w, "  %s %s=%s\n", label.Sprint("option"), n, g.Options.Get(n))
	}
	if g.Output != nil {
		success.Fprintf(w, "%s\n", g.Output.Summary())
		for _, r := range g.Output.Results {
			fmt.Fprintf(w, "  %-12s %d files %s\n", r.Kind, len(r.Files), label.Sprint(result.FormatBytes(r.Size)))
		}
	}
	fmt.Fprintf(w, "%s %s\n", label.Sprint("descriptors:"), g.GeneratorsDir)
}

func printBuilt(w io.Writer, res *builder.Result) {
	b := res.Built
	success.Fprintf(w, "Built %s/%s (%s) in %s\n",
		res.Generated.Recipe, res.Generated.Version, b.BuildType, res.Duration.Round(time.Millisecond))
	for _, a := range b.Artifacts {
		kind := color.YellowString("%-6s", a.Kind)
		switch a.Kind {
		case cmake.ArtifactShared:
			kind = color.MagentaString("%-6s", a.Kind)
		case cmake.ArtifactImport:
			kind = label.Sprintf("%-6s", a.Kind)
		}
		fmt.Fprintf(w, "  %s %s %s\n", kind, a.Path, label.Sprint(result.FormatBytes(a.Size)))
	}
	if db := b.CompileCommands; db != nil {
		fmt.Fprintf(w, "%s %s (%d entries)\n", label.Sprint("compile commands:"), db.Path, db.Entries)
	} else {
		color.New(color.FgYellow).Fprintln(w, "compile commands: not exported")
	}
}

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

package defaults

import "time"

// Native tool timeouts. Zero disables the timeout at the call site.
const (
	// ConfigureTimeout bounds the native configure step.
	ConfigureTimeout = 5 * time.Minute

	// BuildTimeout bounds the native build step.
	BuildTimeout = 60 * time.Minute

	// ToolProbeTimeout bounds "<tool> --version" probes during profile detection.
	ToolProbeTimeout = 10 * time.Second

	// ProcessKillGrace is how long an interrupted tool's output pipes are
	// drained after its process group was killed before they are closed.
	ProcessKillGrace = 2 * time.Second
)

// Watch mode timings.
const (
	// WatchDebounceDelay is the quiet period after the last source change
	// before a rebuild is triggered.
	WatchDebounceDelay = 500 * time.Millisecond
)

// History store timeouts.
const (
	// HistoryOpenTimeout bounds opening and migrating the history database.
	HistoryOpenTimeout = 5 * time.Second

	// HistoryQueryTimeout bounds a single history read or write.
	HistoryQueryTimeout = 10 * time.Second
)

// Progress logging.
const (
	// ProgressLogInterval is the minimum spacing between progress log
	// records taken from native tool output.
	ProgressLogInterval = 2 * time.Second
)

// Copyright 2025 walteh LLC
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

// Package ui gives the user terse, human feedback about what cpc is
// doing, mirrored into zerolog for debugging.
package ui

import (
	"context"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about copy progress
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

var commandColor = color.New(color.FgCyan)

// 🖥️ LogCommand echoes the external command about to run, the way a
// user would have typed it.
func (u *UserLogger) LogCommand(argv []string) {
	cmdline := strings.Join(argv, " ")
	pterm.Info.WithPrefix(pterm.Prefix{Text: "▶"}).Println(commandColor.Sprint(cmdline))
	u.log.Info().Str("command", cmdline).Msg("executing command")
}

// 📊 LogStep logs a phase of the copy (transport, extract, spill)
func (u *UserLogger) LogStep(description string) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogResult logs the final outcome of the invocation
func (u *UserLogger) LogResult(ok bool, description string, err error) {
	if ok {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(description)
	} else {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
		u.log.Warn().Msg(description)
	}
}

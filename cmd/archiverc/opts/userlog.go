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

package opts

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// UserLogger prints short user-facing messages with pterm and mirrors them to zerolog
type UserLogger struct {
	log zerolog.Logger
}

func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

func (u *UserLogger) LogStateChange(description string) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Println(description)
	u.log.Info().Msg(description)
}

func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
	u.log.Warn().Msg(description)
}

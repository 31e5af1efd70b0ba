// Hornsolve
// Copyright (C) 2024+ the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cli

import (
	"context"
	"fmt"

	cliUtil "github.com/hornsolve/hornsolve/cli/util"
	"github.com/hornsolve/hornsolve/solve"
)

// StrategiesArgs is the CLI parsing structure and type of the parsed result of
// the `strategies` subcommand.
type StrategiesArgs struct{}

// Run prints the names of the registered solver strategies, and which one is
// the default.
func (obj *StrategiesArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	def, err := solve.LookupDefault()
	if err != nil {
		return false, err
	}
	for _, name := range solve.Names() {
		s, err := solve.Lookup(name)
		if err != nil {
			return false, err // programming error
		}
		if fmt.Sprintf("%T", s) == fmt.Sprintf("%T", def) {
			fmt.Printf("%s (default)\n", name)
			continue
		}
		fmt.Printf("%s\n", name)
	}
	return true, nil
}

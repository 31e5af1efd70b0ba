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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hornsolve/hornsolve/scenario"
	"github.com/hornsolve/hornsolve/util/errwrap"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchSettle is how long the watcher waits for a burst of events to
// end before it reports them. Editors often write a file in several steps.
const DefaultWatchSettle = 100 * time.Millisecond

// watcher reports changes to the scenario files of an input. A directory input
// is watched for any scenario file, and a file input only for that file. The
// parent directory of a file is what gets watched, so that a file that was
// replaced by a rename is still seen.
type watcher struct {
	// name is the base name of the file to filter by, or empty when the
	// input is a directory.
	name string

	settle time.Duration
	fsw    *fsnotify.Watcher

	logf func(format string, v ...interface{})
}

// newWatcher starts watching the input. Events that happen after this returns
// are not lost, even if Run hasn't started yet.
func newWatcher(input string, logf func(format string, v ...interface{})) (*watcher, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't stat input")
	}
	obj := &watcher{
		settle: DefaultWatchSettle,
		logf:   logf,
	}
	dir := filepath.Clean(input)
	if !fi.IsDir() {
		obj.name = filepath.Base(dir)
		dir = filepath.Dir(dir)
	}

	obj.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't create the watcher")
	}
	if err := obj.fsw.Add(dir); err != nil {
		obj.fsw.Close() // ignore error
		return nil, errwrap.Wrapf(err, "can't watch: %s", dir)
	}
	return obj, nil
}

// relevant returns true if the event is about a scenario file of the input.
func (obj *watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if obj.name != "" {
		return base == obj.name
	}
	return strings.HasSuffix(base, scenario.FileExtension)
}

// Run calls fn once per burst of relevant events, until the context closes. It
// closes the watcher when it returns.
func (obj *watcher) Run(ctx context.Context, fn func()) error {
	defer obj.fsw.Close() // ignore error

	var settled <-chan time.Time // nil until something happens
	for {
		select {
		case event, ok := <-obj.fsw.Events:
			if !ok {
				return nil
			}
			if !obj.relevant(event) {
				continue
			}
			obj.logf("watch: %s", event)
			settled = time.After(obj.settle) // restart the wait

		case err, ok := <-obj.fsw.Errors:
			if !ok {
				return nil
			}
			return errwrap.Wrapf(err, "watcher failed")

		case <-settled:
			settled = nil
			fn()

		case <-ctx.Done():
			return nil
		}
	}
}

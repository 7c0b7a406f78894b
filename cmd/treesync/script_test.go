// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets testscript run the CLI in-process as the "treesync" command.
func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"treesync": Execute,
	})
}

// TestScript runs the CLI scenarios in testdata/script.
func TestScript(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("XDG_CONFIG_HOME", env.WorkDir+"/.config")
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		ContinueOnError: true,
	})
}

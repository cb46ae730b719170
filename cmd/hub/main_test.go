package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/enderfall/hub/cmd/hub/cmd"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"hub": func() {
			if err := cmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Confine ~/.enderfall-hub/ to the temp work dir.
			e.Vars = append(e.Vars,
				"HOME="+e.WorkDir,
				"USERPROFILE="+e.WorkDir,
			)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// file-contains asserts that a file contains (or doesn't contain) a substring.
			// Usage: [!] file-contains <path> <substring>
			"file-contains": cmdFileContains,

			// dir-not-exists asserts that a directory does not exist.
			// Usage: [!] dir-not-exists <path>
			"dir-not-exists": cmdDirNotExists,
		},
	})
}

// cmdFileContains checks if a file contains a substring.
func cmdFileContains(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) < 2 {
		ts.Fatalf("usage: file-contains <path> <substring>")
	}
	path := ts.MkAbs(args[0])
	substr := args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}

	contains := strings.Contains(string(data), substr)
	if neg {
		if contains {
			ts.Fatalf("file %s contains %q (expected not to)", args[0], substr)
		}
	} else {
		if !contains {
			ts.Fatalf("file %s does not contain %q\nContent:\n%s", args[0], substr, string(data))
		}
	}
}

// cmdDirNotExists checks that a directory does not exist.
func cmdDirNotExists(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: dir-not-exists <path>")
	}
	path := ts.MkAbs(args[0])
	_, err := os.Stat(path)
	exists := err == nil

	if neg {
		if !exists {
			ts.Fatalf("%s does not exist (expected it to)", args[0])
		}
	} else {
		if exists {
			ts.Fatalf("%s exists (expected not to)", args[0])
		}
	}
}

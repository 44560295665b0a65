package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notepid/twilight_qwk/internal/packet"
	"github.com/notepid/twilight_qwk/internal/scripting"
)

var scriptCmd = &cobra.Command{
	Use:   "script <report> <packet>",
	Short: "Run a Lua report over a packet",
	Long: `Run a Lua report script. The packet is available through the global "qwk"
module. report is either a path to a .lua file or the name of a script in
paths.scripts (see "qwk scripts").

Example:
  qwk script top-posters TWILIGHT.QWK`,
	Args: cobra.ExactArgs(2),
	RunE: runScript,
}

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List the report scripts in paths.scripts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := scripting.NewRegistry(cfg.Paths.Scripts)
		if err := reg.Scan(); err != nil {
			return err
		}
		for _, r := range reg.List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", r.Name, r.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	path, err := resolveScript(args[0])
	if err != nil {
		return err
	}
	p, err := packet.Open(args[1])
	if err != nil {
		return err
	}
	return scripting.Run(path, p, cmd.OutOrStdout())
}

// resolveScript prefers an existing file and falls back to a registered
// report of that name.
func resolveScript(name string) (string, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, nil
	}

	reg := scripting.NewRegistry(cfg.Paths.Scripts)
	if err := reg.Scan(); err != nil {
		return "", err
	}
	if r := reg.Get(name); r != nil {
		return r.Path, nil
	}
	return "", fmt.Errorf("report %q not found in %s", name, cfg.Paths.Scripts)
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/notepid/twilight_qwk/internal/ansi"
	"github.com/notepid/twilight_qwk/internal/packet"
	"github.com/notepid/twilight_qwk/internal/qwk"
	"github.com/notepid/twilight_qwk/internal/thread"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <packet>...",
	Short: "Print the conferences and threads of packets",
	Long: `Print a packet's conferences with their threads. A packet may be a .qwk
archive or a directory holding CONTROL.DAT and MESSAGES.DAT. Arguments may be
glob patterns, including ** for any number of directories.

Example:
  qwk dump TWILIGHT.QWK --bodies
  qwk dump 'packets/**/*.qwk'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDump,
}

var (
	dumpAll    bool
	dumpBodies bool
	dumpEmpty  bool
)

func init() {
	dumpCmd.Flags().BoolVarP(&dumpAll, "all", "a", false, "list every reconstructed thread, not only top-level ones")
	dumpCmd.Flags().BoolVarP(&dumpBodies, "bodies", "b", false, "print message bodies")
	dumpCmd.Flags().BoolVar(&dumpEmpty, "empty", false, "include conferences without messages")
}

func runDump(cmd *cobra.Command, args []string) error {
	paths, err := expandPackets(args)
	if err != nil {
		return err
	}

	opts := dumpOptions{
		all:       dumpAll || cfg.Reader.ShowAllThreads,
		bodies:    dumpBodies,
		empty:     dumpEmpty,
		stripANSI: cfg.Reader.StripANSI,
	}
	out := cmd.OutOrStdout()
	for i, path := range paths {
		p, err := packet.Open(path)
		if err != nil {
			return err
		}
		if len(paths) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", path)
		}
		writeDump(out, p, opts)
	}
	return nil
}

// expandPackets resolves glob arguments. Plain paths are kept even if they do
// not exist so that Open reports the error.
func expandPackets(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no packets match %s", arg)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

type dumpOptions struct {
	all       bool
	bodies    bool
	empty     bool
	stripANSI bool
}

func writeDump(w io.Writer, p *packet.Packet, opts dumpOptions) {
	b := p.BBS
	fmt.Fprintf(w, "%s", b.Name)
	if b.Location != "" {
		fmt.Fprintf(w, " (%s)", b.Location)
	}
	fmt.Fprintf(w, ", sysop %s, packet for %s\n", b.Sysop, b.Username)
	fmt.Fprintf(w, "%d conferences, %d messages, %d threads", p.Stats.Conferences, p.Stats.Messages, p.Stats.Threads)
	if p.Stats.Unlisted > 0 {
		fmt.Fprintf(w, ", %d in unlisted conferences", p.Stats.Unlisted)
	}
	fmt.Fprintln(w)

	confs := p.Active()
	if opts.empty {
		confs = p.Conferences
	}
	for _, c := range confs {
		threads := c.DisplayThreads
		if opts.all {
			threads = c.Threads
		}
		fmt.Fprintf(w, "\n[%d] %s (%d messages, %d threads)\n", c.Number, c.Name, c.MessageCount, len(threads))
		for _, t := range threads {
			writeThread(w, t, opts)
		}
	}
}

func writeThread(w io.Writer, t *thread.Thread, opts dumpOptions) {
	writeMessage(w, "  ", t.Root, opts)
	for _, m := range t.Replies {
		writeMessage(w, "    ", m, opts)
	}
}

func writeMessage(w io.Writer, indent string, m *qwk.Message, opts dumpOptions) {
	fmt.Fprintf(w, "%s#%s %s - %s, %s\n", indent, m.Number, m.Subject, m.From, qwk.FormatDate(m))
	if !opts.bodies || m.Body == "" {
		return
	}
	body := m.Body
	if opts.stripANSI {
		body = ansi.Strip(body)
	}
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(w, "%s  | %s\n", indent, line)
	}
}

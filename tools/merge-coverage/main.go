// Command merge-coverage merges Go coverage profiles, e.g. the unit test
// profile and the stdio integration profile converted with
// "go tool covdata textfmt -i=coverage/integration".
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// profile maps "file:start,end statements" blocks to hit counts
type profile struct {
	mode   string
	blocks map[string]int
}

func newProfile() *profile {
	return &profile{blocks: make(map[string]int)}
}

// add merges one profile. In set mode a block is covered when any profile
// covers it; in count and atomic modes counts are summed. The first mode
// line seen wins.
func (p *profile) add(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if mode, ok := strings.CutPrefix(line, "mode:"); ok {
			if p.mode == "" {
				p.mode = strings.TrimSpace(mode)
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		count, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("bad count in %q: %w", line, err)
		}

		key := fields[0] + " " + fields[1]
		if p.mode == "set" || p.mode == "" {
			p.blocks[key] = max(p.blocks[key], min(count, 1))
		} else {
			p.blocks[key] += count
		}
	}
	return scanner.Err()
}

// write prints the merged profile with blocks sorted
func (p *profile) write(w io.Writer) error {
	mode := p.mode
	if mode == "" {
		mode = "set"
	}
	if _, err := fmt.Fprintf(w, "mode: %s\n", mode); err != nil {
		return err
	}
	keys := make([]string, 0, len(p.blocks))
	for k := range p.blocks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s %d\n", k, p.blocks[k]); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <coverage1.out> <coverage2.out> [coverage3.out...]\n", os.Args[0])
		os.Exit(1)
	}

	merged := newProfile()
	for _, name := range os.Args[1:] {
		f, err := os.Open(name) //nolint:gosec // G304: paths come from the command line
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", name, err)
			continue
		}
		err = merged.add(f)
		_ = f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	if err := merged.write(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing profile: %v\n", err)
		os.Exit(1)
	}
}

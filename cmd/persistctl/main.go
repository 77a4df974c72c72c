// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

// persistctl is a thin demo/inspection CLI over the persist package: it
// builds a BVec or HashMap from stdin lines and prints size/at/find
// results. It is not a benchmark harness, just an external consumer of the
// public API.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hamtree/persist"
	"github.com/hamtree/persist/internal/xlog"
)

var app = &cli.App{
	Name:  "persistctl",
	Usage: "inspect persist's container types from the command line",
	Commands: []*cli.Command{
		bvecCommand,
		hashmapCommand,
	},
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "enable trace-level logging of node allocation/release",
}

var bvecCommand = &cli.Command{
	Name:  "bvec",
	Usage: "build a BVec from stdin lines and report its size and elements",
	Flags: []cli.Flag{verboseFlag, &cli.IntFlag{
		Name:  "at",
		Usage: "print the element at this index instead of dumping all elements",
		Value: -1,
	}},
	Action: runBVec,
}

var hashmapCommand = &cli.Command{
	Name:  "hashmap",
	Usage: "build a HashMap from stdin lines (key=value per line) and report lookups",
	Flags: []cli.Flag{verboseFlag, &cli.StringFlag{
		Name:  "find",
		Usage: "look up this key instead of dumping all entries",
	}},
	Action: runHashMap,
}

func readLines() ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func runBVec(c *cli.Context) error {
	if c.Bool("verbose") {
		xlog.SetDefault(xlog.New(os.Stderr, xlog.LevelTrace))
	}
	lines, err := readLines()
	if err != nil {
		return err
	}
	v, err := persist.BVecFromSlice(lines)
	if err != nil {
		return err
	}
	fmt.Printf("size: %d\n", v.Size())
	if at := c.Int("at"); at >= 0 {
		val, err := v.At(at)
		if err != nil {
			return err
		}
		fmt.Printf("at(%d): %s\n", at, val)
		return nil
	}
	it := v.Iterator()
	for it.HasNext() {
		val, err := it.Next()
		if err != nil {
			return err
		}
		fmt.Println(val)
	}
	return nil
}

func runHashMap(c *cli.Context) error {
	if c.Bool("verbose") {
		xlog.SetDefault(xlog.New(os.Stderr, xlog.LevelTrace))
	}
	lines, err := readLines()
	if err != nil {
		return err
	}
	m := persist.NewHashMap[string, string](persist.StringHasher())
	tm := m.AsTransient()
	for _, line := range lines {
		k, v := splitKV(line)
		if err := tm.Set(k, v); err != nil {
			return err
		}
	}
	m = tm.Persistent()
	fmt.Printf("size: %d\n", m.Size())
	if key := c.String("find"); key != "" {
		val, ok := m.Find(key)
		if !ok {
			fmt.Printf("find(%q): not found\n", key)
			return nil
		}
		fmt.Printf("find(%q): %s\n", key, val)
		return nil
	}
	it := m.Iterator()
	for it.HasNext() {
		k, v, err := it.Next()
		if err != nil {
			return err
		}
		fmt.Printf("%s=%s\n", k, v)
	}
	return nil
}

func splitKV(line string) (string, string) {
	for i := 0; i < len(line); i++ {
		if line[i] == '=' {
			return line[:i], line[i+1:]
		}
	}
	return line, ""
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/zephyrtronium/calc"
)

const historyFile = ".calc_history"

func main() {
	log.SetFlags(0)
	var (
		inname, arith string
		with          [][2]string
		nl, repl      bool
		cs, ts        bool
		base, prec    int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimPrefix(strings.TrimSpace(d[0]), "$"), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.IntVar(&base, "base", 10, "display base: 2, 8, 10, or 16")
	flag.IntVar(&prec, "pre", calc.DefaultPrecision, "significant digits of arbitrary-precision arithmetic")
	flag.StringVar(&arith, "arith", "arb", "arithmetic: arb, u8, u16, u32, u64, or u128")
	flag.BoolVar(&cs, "cs", false, "group digits of results with commas")
	flag.BoolVar(&ts, "ts", false, "display results as timestamps")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.BoolVar(&nl, "n", false, "evaluate separate input lines as separate expressions")
	flag.BoolVar(&repl, "i", false, "interactive mode")
	flag.Parse()

	k, ok := calc.ParseKind(arith)
	if !ok {
		log.Fatalf("unknown arithmetic %q", arith)
	}
	s := calc.Settings{Base: base, CommaSeparated: cs, Timestamp: ts, Precision: prec, Arith: k}
	if err := s.Validate(); err != nil {
		log.Fatal(err)
	}
	doc := calc.NewDocumentState(s)
	for _, d := range with {
		if _, err := calc.Evaluate("$"+d[0]+" = "+d[1], doc); err != nil {
			log.Fatalf("setting %s: %v", d[0], err)
		}
	}

	if repl {
		os.Exit(interactive(doc))
	}

	exprs, err := load(inname, flag.NArg() == 0, nl)
	if err != nil {
		log.Fatal(err)
	}
	exprs = append(exprs, flag.Args()...)

	code := 0
	red := color.New(color.FgRed).SprintFunc()
	for _, expr := range exprs {
		r, err := calc.Evaluate(expr, doc)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err))
			code = 1
			continue
		}
		if r != "" {
			fmt.Println(r)
		}
	}
	os.Exit(code)
}

// read collects expressions from an input, either one per line or the whole
// input as one.
func read(r io.Reader, lines bool) ([]string, error) {
	if !lines {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return []string{string(b)}, nil
	}
	var exprs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		exprs = append(exprs, sc.Text())
	}
	return exprs, sc.Err()
}

// load reads expressions from the named input file, from stdin if the name
// is "-" or std is set and there is no name, or from nothing otherwise.
func load(inname string, std, lines bool) ([]string, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return read(f, lines)
	case inname == "-", std:
		return read(os.Stdin, lines)
	}
	return nil, nil
}

// interactive runs a read-eval-print loop on the terminal.
func interactive(doc *calc.DocumentState) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	red := color.New(color.FgRed).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	for {
		line, err := ln.Prompt("> ")
		if err != nil {
			// io.EOF or liner.ErrPromptAborted
			fmt.Println()
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if strings.HasPrefix(line, ":") {
			if command(doc, line) {
				break
			}
			continue
		}
		o, err := doc.Evaluate(line)
		if err != nil {
			fmt.Println(red(err))
			continue
		}
		if o.Text != "" {
			fmt.Println(o.Text)
		}
		if o.Persisted() {
			fmt.Println(faint("settings: " + o.Globals.String()))
		}
	}

	if f, err := os.Create(histPath); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}
	return 0
}

// command handles a REPL meta-command. It returns true to quit.
func command(doc *calc.DocumentState, line string) bool {
	switch line {
	case ":q", ":quit":
		return true
	case ":vars":
		for _, name := range doc.Names() {
			v, _ := doc.Lookup(name)
			fmt.Printf("$%s = %v\n", name, v)
		}
	case ":settings":
		fmt.Println(doc.Settings())
	default:
		fmt.Println("commands: :quit, :vars, :settings")
	}
	return false
}

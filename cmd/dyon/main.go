// Command dyon runs a script, or without one drops into a small REPL over
// an in-memory module: `:load path` parses and loads a script, `:call
// name arg...` invokes one of its functions, `:quit` exits. Ctrl-C does
// not kill the process at once and does not interrupt a pending read: the
// REPL stops when the next line has been read, and the command then exits.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"

	pprofproto "github.com/google/pprof/profile"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/dyon-lang/dyon/embed"
	"github.com/dyon-lang/dyon/load"
	"github.com/dyon-lang/dyon/runtime"
	"github.com/dyon-lang/dyon/value"
)

func main() {
	cpuprofile := flag.String("cpuprofile", "", "write a CPU profile to this file and summarize it on exit")
	flag.Parse()

	var stopProfile func()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		stopProfile = func() {
			pprof.StopCPUProfile()
			f.Close()
			summarizeProfile(*cpuprofile)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var exitCode int
	if path := flag.Arg(0); path != "" {
		m := runtime.NewModule()
		if err := load.Load(path, m); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = 1
		} else if err := embed.New("main").Run(m); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = 1
		}
	} else {
		repl(ctx)
	}

	if stopProfile != nil {
		stopProfile()
	}
	os.Exit(exitCode)
}

func repl(ctx context.Context) {
	module := runtime.NewModule()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("dyon> type :load <path>, :call <fn> [args...], or :quit")
	for {
		fmt.Print("dyon> ")
		if !scanner.Scan() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := scanner.Text()
		fields, err := shellquote.Split(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "parse error:", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case ":quit", ":q":
			return
		case ":load":
			if len(fields) != 2 {
				fmt.Fprintln(os.Stderr, "usage: :load <path>")
				continue
			}
			if err := load.Load(fields[1], module); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case ":call":
			if len(fields) < 2 {
				fmt.Fprintln(os.Stderr, "usage: :call <fn> [args...]")
				continue
			}
			runCall(module, fields[1], fields[2:])
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n", fields[0])
		}
	}
}

func runCall(module *runtime.Module, name string, rawArgs []string) {
	c := embed.New(name)
	for _, a := range rawArgs {
		if f, err := strconv.ParseFloat(a, 64); err == nil {
			c.Arg(f)
			continue
		}
		c.Arg(a)
	}
	rt := runtime.NewRuntime()
	v, err := rt.CallStrRet(name, argsOf(c), module)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(displayResult(v))
}

// argsOf reaches into a not-yet-run Call to read back the arguments it
// accumulated, letting the REPL reuse the same marshalling Arg applies
// instead of duplicating it.
func argsOf(c *embed.Call) []value.Value {
	return c.Args()
}

func displayResult(v value.Value) string {
	switch t := v.(type) {
	case value.F64:
		return fmt.Sprintf("%v", t.V)
	case value.Bool:
		return fmt.Sprintf("%v", t.V)
	case value.Text:
		return t.V
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

func summarizeProfile(path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer f.Close()
	prof, err := pprofproto.Parse(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "profile parse:", err)
		return
	}
	fmt.Fprintf(os.Stderr, "profile: %d samples across %d functions\n", len(prof.Sample), len(prof.Function))
}

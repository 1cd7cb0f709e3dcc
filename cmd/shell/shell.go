package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/robertkrimen/isatty"
	"github.com/vilterp/pysubscript/pkg"
	"github.com/vilterp/pysubscript/pkg/versiontable"
)

var pythonVersion = flag.String("python-version", "3.8", "target Python version")

// session remembers imports so later annotations can use them.
type session struct {
	checker *pysubscript.Checker
	imports []string
}

func main() {
	// get cmdline flags
	flag.Parse()

	cfg, err := pysubscript.DefaultConfig().OverridePythonVersion(*pythonVersion)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	checker, err := pysubscript.NewChecker(cfg, versiontable.Builtin(), nil)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer checker.Close()
	sess := &session{checker: checker}

	// check if is TTY
	isInputTty := isatty.Check(os.Stdin.Fd())

	if isInputTty {
		fmt.Println("pysubscript shell")
		fmt.Println("\\h for help")
	}

	// initialize readline
	prompt := ""
	if isInputTty {
		prompt = fmt.Sprintf("py%s> ", cfg.PythonVersion)
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       "/tmp/.pysubscript-history",
		InterruptPrompt:   "^C",
		EOFPrompt:         "bye!",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	for {
		line, readlineErr := l.Readline()
		if readlineErr != nil {
			fmt.Println("bye!")
			return
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case line == `\h`:
			fmt.Println(`\h	help`)
			fmt.Println(`\t	show version table`)
			fmt.Println(`\i	show imports`)
			fmt.Println(`\v 3.9	change target version`)
			fmt.Println(`anything else is an import or an annotation, e.g. Queue[int]`)
		case line == `\t`:
			fmt.Println(versiontable.Builtin().Format().String())
		case line == `\i`:
			fmt.Println(strings.Join(sess.imports, "\n"))
		case strings.HasPrefix(line, `\v`):
			cfg, err := pysubscript.DefaultConfig().OverridePythonVersion(strings.TrimSpace(strings.TrimPrefix(line, `\v`)))
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			v := cfg.PythonVersion
			sess.checker = sess.checker.WithTarget(v)
			if isInputTty {
				l.SetPrompt(fmt.Sprintf("py%s> ", v))
			}
		case strings.HasPrefix(line, "from ") || strings.HasPrefix(line, "import "):
			sess.addImport(line)
		default:
			sess.explain(line)
		}
	}
}

func (s *session) addImport(line string) {
	if _, err := s.checker.Evaluate(context.Background(), "<shell>", line+"\n"); err != nil {
		fmt.Println("error:", err)
		return
	}
	s.imports = append(s.imports, line)
}

// explain evaluates line as an annotation. A bare type expression is
// treated as the annotation of a throwaway variable.
func (s *session) explain(line string) {
	if !strings.Contains(line, ":") {
		line = "_: " + line
	}
	src := strings.Join(append(append([]string{}, s.imports...), line), "\n") + "\n"
	lastLine := len(s.imports) + 1

	sites, err := s.checker.Evaluate(context.Background(), "<shell>", src)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	found := false
	for _, es := range sites {
		if es.Site.Span.Line != lastLine {
			continue
		}
		found = true
		fmt.Printf("%s[...] (%s, %s): %s\n",
			es.Site.Symbol.Name, es.Site.Symbol.QualifiedName(), es.Site.Form,
			es.Verdict.Format().String(),
		)
	}
	if !found {
		fmt.Println("no subscripts")
	}
}

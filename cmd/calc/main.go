package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/keypad"
)

var (
	// logger instance
	log = logrus.New()
)

// set with -ldflags "-X main.Version=..."
var (
	Version = "development"
)

// errFailed indicates that some expressions could not be evaluated. The
// details have already been logged.
var errFailed = errors.New("evaluation failed")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errFailed) {
			log.WithError(err).Error("calc failed")
		}
		os.Exit(1)
	}
}

// options are the command line options other than configuration.
type options struct {
	inname string
	verb   string
	lines  bool
	keys   bool
	show   bool
	args   []string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	log.SetOutput(stderr)
	log.SetLevel(logrus.InfoLevel)

	cfg := defaultConfig()
	var opts options
	app := kingpin.New("calc", "Evaluate calculator expressions.")
	app.Version(Version)
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.Flag("config", "Configuration in YAML format.").SetValue(&configValue{c: &cfg})
	app.Flag("in", "Input file (- for stdin; default stdin if no args given).").StringVar(&opts.inname)
	app.Flag("lines", "Evaluate each input line as a separate expression.").Short('n').BoolVar(&opts.lines)
	app.Flag("keys", "Arguments are calculator key labels rather than expressions.").BoolVar(&opts.keys)
	app.Flag("prec", "Evaluate precisely with this many bits of precision.").Short('p').UintVar(&cfg.Precision)
	app.Flag("fmt", "Result formatting verb for precise evaluation, e.g. %.50f.").StringVar(&opts.verb)
	app.Flag("locale", "Format results for this language, e.g. en or de.").StringVar(&cfg.Locale)
	app.Flag("right-pow", "Make ^ right-associative.").BoolVar(&cfg.RightAssocPow)
	app.Flag("history", "File in which to keep calculation history.").StringVar(&cfg.HistoryFile)
	app.Flag("history-limit", "Maximum number of history entries.").IntVar(&cfg.HistoryLimit)
	app.Flag("show-history", "Print calculation history, newest first.").BoolVar(&opts.show)
	app.Flag("debug", "Log evaluation details.").Short('d').BoolVar(&cfg.Debug)
	app.Arg("expr", "Expressions to evaluate, or key labels with --keys.").StringsVar(&opts.args)
	if _, err := app.Parse(args); err != nil {
		return err
	}

	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
		keypad.SetLogLevel("debug")
	}
	log.WithFields(map[string]interface{}{
		"precision":       cfg.Precision,
		"locale":          cfg.Locale,
		"right-assoc-pow": cfg.RightAssocPow,
		"history-file":    cfg.HistoryFile,
		"history-limit":   cfg.HistoryLimit,
	}).Debug("configuration")

	c, err := newCalculator(cfg, opts.verb, stdout)
	if err != nil {
		return err
	}

	if opts.show {
		for _, e := range c.hist.Entries() {
			fmt.Fprintln(stdout, e)
		}
		if len(opts.args) == 0 && opts.inname == "" {
			return nil
		}
	}

	if opts.keys {
		return c.press(opts.args)
	}

	var ins []io.Reader
	f, err := infile(opts.inname, len(opts.args) == 0, stdin)
	if err != nil {
		return err
	}
	if f != nil {
		defer f.Close()
		ins = append(ins, f)
	}
	for _, arg := range opts.args {
		ins = append(ins, strings.NewReader(arg))
	}

	ok := true
	for _, in := range ins {
		srcs, err := exprs(in, opts.lines)
		if err != nil {
			return err
		}
		for _, src := range srcs {
			ok = c.eval(src) && ok
		}
	}
	if !ok {
		return errFailed
	}
	return nil
}

// infile opens the input file. If there is none, stdin is used when std is
// true.
func infile(inname string, std bool, stdin io.Reader) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		return f, nil
	case inname == "-", std:
		return io.NopCloser(stdin), nil
	}
	return nil, nil
}

// exprs reads expressions from in: one per line if lines is true, otherwise
// the whole input.
func exprs(in io.Reader, lines bool) ([]string, error) {
	if !lines {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return []string{strings.TrimSpace(string(b))}, nil
	}
	var r []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			r = append(r, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return r, nil
}

// calculator evaluates expressions and prints their results.
type calculator struct {
	ev      *calc.Evaluator
	hist    *keypad.History
	out     io.Writer
	verb    string
	tag     language.Tag
	local   bool
	precise bool
}

func newCalculator(cfg config, verb string, out io.Writer) (*calculator, error) {
	var opts []calc.Option
	if cfg.RightAssocPow {
		opts = append(opts, calc.RightAssocPow())
	}
	if cfg.Precision > 0 {
		opts = append(opts, calc.Prec(cfg.Precision))
	}
	if verb != "" {
		verb += "\n"
	}
	c := calculator{
		ev:      calc.New(opts...),
		out:     out,
		verb:    verb,
		precise: cfg.Precision > 0,
	}
	if cfg.Locale != "" {
		tag, err := language.Parse(cfg.Locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
		}
		c.tag, c.local = tag, true
	}
	if cfg.HistoryFile == "" {
		c.hist = keypad.NewHistory(nil, cfg.HistoryLimit)
		return &c, nil
	}
	hist, err := keypad.LoadHistory(keypad.NewFileStore(cfg.HistoryFile), cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}
	c.hist = hist
	return &c, nil
}

// eval evaluates and prints one expression, printing Error if it fails.
func (c *calculator) eval(src string) bool {
	var x float64
	if c.precise {
		r, err := c.ev.EvalBig(src)
		if err != nil {
			return c.fail(src, err)
		}
		if c.verb != "" {
			fmt.Fprintf(c.out, c.verb, r)
		} else {
			fmt.Fprintln(c.out, calc.FormatBig(r))
		}
		x, _ = r.Float64()
	} else {
		r, err := c.ev.Eval(src)
		if err != nil {
			return c.fail(src, err)
		}
		if c.local {
			fmt.Fprintln(c.out, calc.FormatLocale(r, c.tag))
		} else {
			fmt.Fprintln(c.out, calc.Format(r))
		}
		x = r
	}
	if err := c.hist.Add(calc.Entry(src, x)); err != nil {
		log.WithError(err).Warn("failed to save history")
	}
	return true
}

func (c *calculator) fail(src string, err error) bool {
	fmt.Fprintln(c.out, keypad.ErrorDisplay)
	fields := logrus.Fields{"expr": src}
	var ie calc.InputError
	if errors.As(err, &ie) {
		fields["column"] = ie.Pos()
	}
	log.WithError(err).WithFields(fields).Warn("evaluation failed")
	return false
}

// press feeds key labels to a keypad session and prints the display.
func (c *calculator) press(keys []string) error {
	s := keypad.NewSession(c.ev, c.hist)
	for _, k := range keys {
		if err := s.Press(k); err != nil {
			return fmt.Errorf("pressing %q: %w", k, err)
		}
	}
	fmt.Fprintln(c.out, s.Display())
	if s.Display() == keypad.ErrorDisplay {
		return errFailed
	}
	return nil
}

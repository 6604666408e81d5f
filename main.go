package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/sirupsen/logrus"

	"github.com/firodj/mipsdis/internal"
)

type commonFlags struct {
	verbose bool
	config  string
	db      string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
	fs.StringVar(&c.config, "config", "", "config file with one 'flag value' per line")
	fs.StringVar(&c.db, "db", "", "sqlite database for stored runs")
}

func (c *commonFlags) setupLogging() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if c.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func (c *commonFlags) openRepository(ctx context.Context) (*internal.SQLRepository, error) {
	if c.db == "" {
		return nil, errors.New("missing -db")
	}
	repo, err := internal.NewSQLRepository("file:"+c.db, c.verbose)
	if err != nil {
		return nil, err
	}
	if err := repo.CreateSchema(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

func ffOptions() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix("MIPSDIS"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	}
}

type disasmConfig struct {
	commonFlags
	format  string
	color   bool
	pseudo  bool
	stats   bool
	workers int
	from    uint
	to      uint
	at      string
}

func checkAddress(name string, v uint) error {
	if v > math.MaxUint32 {
		return fmt.Errorf("-%s 0x%x does not fit in 32 bits", name, v)
	}
	return nil
}

func (cfg *disasmConfig) validate() error {
	if err := checkAddress("from", cfg.from); err != nil {
		return err
	}
	if err := checkAddress("to", cfg.to); err != nil {
		return err
	}
	if cfg.at != "" {
		if _, err := internal.ParseHex32(cfg.at); err != nil {
			return fmt.Errorf("-at: %w", err)
		}
	}
	return nil
}

func (cfg *disasmConfig) hasRange() bool {
	return cfg.from != 0 || cfg.to != math.MaxUint32
}

func runDisasm(ctx context.Context, cfg *disasmConfig, filename string, w io.Writer) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	doc, err := internal.LoadDocument(ctx, filename)
	if err != nil {
		return err
	}

	var results []*internal.DecodeResult
	if cfg.at != "" {
		addr, _ := internal.ParseHex32(cfg.at)
		if res := doc.DisasmAt(addr); res != nil {
			results = append(results, res)
		}
	} else if cfg.hasRange() {
		results, err = doc.DisasmRange(ctx, uint32(cfg.from), uint32(cfg.to), cfg.workers)
	} else {
		results, err = doc.DisasmAll(ctx, cfg.workers)
	}
	if err != nil {
		return err
	}

	switch cfg.format {
	case "text":
		p := internal.NewPrinter(w, internal.PrintOptions{Color: cfg.color, Pseudo: cfg.pseudo})
		err = p.PrintAll(results)
	case "yaml":
		err = internal.WriteYAML(w, internal.NewRecords(results, cfg.pseudo))
	default:
		return fmt.Errorf("unknown format %q", cfg.format)
	}
	if err != nil {
		return err
	}

	if cfg.stats {
		if err := internal.CollectStats(results).Write(w); err != nil {
			return err
		}
	}

	if cfg.db != "" {
		repo, err := cfg.openRepository(ctx)
		if err != nil {
			return err
		}
		defer repo.Close()

		run, err := repo.SaveRun(ctx, filename, results)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"run":    run.ID,
			"count":  run.Count,
			"failed": run.Failed,
		}).Info("run stored")
	}
	return nil
}

func disasmCommand() *ffcli.Command {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	cfg := &disasmConfig{}
	cfg.register(fs)
	fs.StringVar(&cfg.format, "format", "text", "output format: text or yaml")
	fs.BoolVar(&cfg.color, "color", !color.NoColor, "colour the text output")
	fs.BoolVar(&cfg.pseudo, "pseudo", false, "annotate with pseudo code")
	fs.BoolVar(&cfg.stats, "stats", false, "print mnemonic statistics")
	fs.IntVar(&cfg.workers, "workers", runtime.NumCPU(), "decode workers, 0 = unbounded")
	fs.UintVar(&cfg.from, "from", 0, "first address")
	fs.UintVar(&cfg.to, "to", math.MaxUint32, "last address")
	fs.StringVar(&cfg.at, "at", "", "print only the instruction at or below this hex address")

	return &ffcli.Command{
		Name:       "disasm",
		ShortUsage: "disasm [flags] <listing>",
		ShortHelp:  "disassemble an address/word listing",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, args []string) error {
			cfg.setupLogging()
			if len(args) < 1 {
				return errors.New("missing listing file")
			}
			return runDisasm(ctx, cfg, args[0], os.Stdout)
		},
	}
}

type decodeConfig struct {
	commonFlags
	pc   uint
	dump bool
}

func runDecode(cfg *decodeConfig, words []string, w io.Writer) error {
	if err := checkAddress("pc", cfg.pc); err != nil {
		return err
	}
	pc := uint32(cfg.pc)
	for _, s := range words {
		word, err := internal.ParseHex32(s)
		if err != nil {
			return err
		}

		instr, err := internal.Decode(word, pc)
		if err != nil {
			logrus.Debug(err)
			if _, err := fmt.Fprintf(w, "0x%08x %s\n", pc, internal.ErrorText); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, "0x%08x %s\n", pc, instr); err != nil {
				return err
			}
			if cfg.dump {
				if _, err := fmt.Fprintf(w, "  %s\n", internal.LayoutOf(instr.Family).Format(word)); err != nil {
					return err
				}
				spew.Fdump(w, instr)
			}
		}
		pc += 4
	}
	return nil
}

func decodeCommand() *ffcli.Command {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	cfg := &decodeConfig{}
	cfg.register(fs)
	fs.UintVar(&cfg.pc, "pc", 0x00400000, "address of the first word")
	fs.BoolVar(&cfg.dump, "dump", false, "dump the decoded instruction")

	return &ffcli.Command{
		Name:       "decode",
		ShortUsage: "decode [flags] <word>...",
		ShortHelp:  "decode instruction words given on the command line",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, args []string) error {
			cfg.setupLogging()
			if len(args) < 1 {
				return errors.New("missing instruction word")
			}
			return runDecode(cfg, args, os.Stdout)
		},
	}
}

func runsCommand() *ffcli.Command {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	cfg := &commonFlags{}
	cfg.register(fs)

	return &ffcli.Command{
		Name:       "runs",
		ShortUsage: "runs -db <file>",
		ShortHelp:  "list stored runs",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, args []string) error {
			cfg.setupLogging()
			repo, err := cfg.openRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			runs, err := repo.ListRuns(ctx)
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Printf("%s %s %s count=%d failed=%d\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Source, run.Count, run.Failed)
			}
			return nil
		},
	}
}

func showCommand() *ffcli.Command {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	cfg := &commonFlags{}
	cfg.register(fs)

	return &ffcli.Command{
		Name:       "show",
		ShortUsage: "show -db <file> <run-id>",
		ShortHelp:  "print a stored run",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, args []string) error {
			cfg.setupLogging()
			if len(args) < 1 {
				return errors.New("missing run id")
			}
			repo, err := cfg.openRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			_, rows, err := repo.LoadRun(ctx, args[0])
			if err != nil {
				return err
			}
			for _, row := range rows {
				fmt.Printf("%s %s\n", row.AddrText, row.Text)
			}
			return nil
		},
	}
}

func main() {
	appName := filepath.Base(os.Args[0])

	rootFlagSet := flag.NewFlagSet(appName, flag.ExitOnError)

	ctx := context.Background()
	// trap Ctrl+C and call cancel on the context
	ctx, cancel := context.WithCancel(ctx)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	defer func() {
		signal.Stop(quit)
		cancel()
	}()

	go func() {
		<-quit
		cancel()
	}()

	root := &ffcli.Command{
		ShortUsage: appName + " [flags] <subcommand>",
		FlagSet:    rootFlagSet,
		Subcommands: []*ffcli.Command{
			disasmCommand(),
			decodeCommand(),
			runsCommand(),
			showCommand(),
			serveCommand(),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}

	err := root.ParseAndRun(ctx, os.Args[1:])
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		logrus.Fatal(err)
	}
}

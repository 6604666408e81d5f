package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/sirupsen/logrus"

	"github.com/firodj/mipsdis/internal"
)

type server struct {
	repo    *internal.SQLRepository
	workers int
}

func newServer(repo *internal.SQLRepository, workers int) *echo.Echo {
	s := &server{repo: repo, workers: workers}

	e := echo.New()
	e.HideBanner = true
	e.GET("/decode", s.decode)
	e.POST("/disasm", s.disasm)
	e.GET("/runs", s.listRuns)
	e.GET("/runs/:id", s.showRun)
	return e
}

func (s *server) decode(c echo.Context) error {
	word, err := internal.ParseHex32(c.QueryParam("word"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid word")
	}
	var pc uint32
	if p := c.QueryParam("pc"); p != "" {
		if pc, err = internal.ParseHex32(p); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid pc")
		}
	}

	instr, err := internal.Decode(word, pc)
	res := &internal.DecodeResult{
		Entry: internal.Entry{Address: pc, Encoded: word},
		Instr: instr,
		Err:   err,
	}
	return c.JSON(http.StatusOK, internal.NewRecord(res, true))
}

func (s *server) disasm(c echo.Context) error {
	ctx := c.Request().Context()

	doc := internal.NewDocument()
	if err := doc.LoadListing(ctx, c.Request().Body, "request"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, err := doc.DisasmAll(ctx, s.workers)
	if err != nil {
		return err
	}

	if s.repo != nil && c.QueryParam("store") == "true" {
		run, err := s.repo.SaveRun(ctx, "request", results)
		if err != nil {
			return err
		}
		c.Response().Header().Set("X-Run-Id", run.ID)
	}

	return c.JSON(http.StatusOK, internal.NewRecords(results, c.QueryParam("pseudo") == "true"))
}

func (s *server) listRuns(c echo.Context) error {
	if s.repo == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no database configured")
	}
	runs, err := s.repo.ListRuns(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, runs)
}

func (s *server) showRun(c echo.Context) error {
	if s.repo == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no database configured")
	}
	run, rows, err := s.repo.LoadRun(c.Request().Context(), c.Param("id"))
	if errors.Is(err, internal.ErrRunNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	} else if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"run":          run,
		"instructions": rows,
	})
}

func serveCommand() *ffcli.Command {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg := &commonFlags{}
	cfg.register(fs)
	addr := fs.String("addr", ":1357", "listen address")

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		ShortHelp:  "serve the decoder over HTTP",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, args []string) error {
			cfg.setupLogging()

			var repo *internal.SQLRepository
			if cfg.db != "" {
				var err error
				if repo, err = cfg.openRepository(ctx); err != nil {
					return err
				}
				defer repo.Close()
			}

			e := newServer(repo, runtime.NumCPU())
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := e.Shutdown(shutdownCtx); err != nil {
					logrus.WithError(err).Warn("shutdown")
				}
			}()

			logrus.WithField("addr", *addr).Info("listening")
			err := e.Start(*addr)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}
}

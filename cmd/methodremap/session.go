package main

import (
	"log/slog"

	"github.com/qiniu/x/errors"
	"github.com/spf13/cobra"

	"method-remapper/internal/diagnostic"
	"method-remapper/internal/mapping"
	"method-remapper/internal/provider"
	"method-remapper/internal/remap"
)

// session holds what every subcommand needs: the logger, the loaded table
// and the open classpath.
type session struct {
	logger    *slog.Logger
	table     *mapping.Table
	loadDiags diagnostic.Diagnostics
	classpath provider.Chain
	closers   []provider.Closer
	opts      []remap.Option
}

func logLevel(verbose int) slog.Level {
	switch {
	case verbose >= 2:
		return remap.LevelTrace
	case verbose == 1:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func openSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()

	verbose, _ := flags.GetCount("verbose")
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel(verbose)}))

	s := &session{logger: logger, opts: []remap.Option{remap.WithLogger(logger)}}

	if inherit, _ := flags.GetBool("inherit-declarations"); inherit {
		s.opts = append(s.opts, remap.WithInheritedDeclarations())
	}

	path, _ := flags.GetString("mappings")

	table, diags, err := mapping.LoadFile(path, mapping.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	logger.Debug("mappings loaded", "file", path, "entries", table.Len(), "owners", len(table.Owners()), "warnings", len(diags.Warnings))
	s.table = table
	s.loadDiags = diags

	elems, _ := flags.GetStringArray("classpath")
	for _, elem := range elems {
		p, err := provider.Open(elem)
		if err != nil {
			_ = s.Close()
			return nil, err
		}

		s.closers = append(s.closers, p)
		s.classpath = append(s.classpath, p)
	}

	return s, nil
}

func (s *session) Close() error {
	var errs errors.List
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs.Add(err)
		}
	}

	return errs.ToError()
}

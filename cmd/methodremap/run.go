package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"method-remapper/internal/classfile"
	"method-remapper/internal/jar"
	"method-remapper/internal/mapping"
	"method-remapper/internal/remap"
)

func runJar(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	jobs, _ := cmd.Flags().GetInt("jobs")

	opts := jar.Options{Jobs: jobs, Logger: s.logger, Remap: s.opts}
	if len(s.classpath) > 0 {
		opts.Classpath = s.classpath
	}

	stats, err := jar.RewriteFile(cmd.Context(), args[0], args[1], s.table, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d classes, %d rewritten, %d other entries\n",
		args[1], stats.Classes, stats.Rewritten, stats.Copied)

	return nil
}

func runClass(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	in, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read class: %w", err)
	}

	out, err := remap.New(s.classpath, s.table, s.opts...).Remap(in)
	if err != nil {
		return err
	}

	if err := os.WriteFile(args[1], out, 0o644); err != nil {
		return fmt.Errorf("failed to write class: %w", err)
	}

	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	r := remap.NewResolver(s.classpath, s.table, s.opts...)

	classes := make(map[string]mapping.Methods, len(args))
	for _, name := range args {
		m, err := r.Resolve(name)
		if err != nil {
			return err
		}

		classes[name] = m
	}

	data, err := yaml.Marshal(mapping.NewFile(classes))
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}

func runCheck(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	diags := s.loadDiags
	diags.Merge(mapping.Validate(s.table, s.classpath))

	out := cmd.OutOrStdout()
	for _, d := range diags.All() {
		fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
	}

	if !diags.IsValid() {
		return fmt.Errorf("%d mapping errors", len(diags.Errors))
	}

	fmt.Fprintf(out, "%d mappings ok (%d warnings)\n", s.table.Len(), len(diags.Warnings))

	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read class: %w", err)
	}

	cf, err := classfile.Parse(data)
	if err != nil {
		return err
	}

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Fdump(cmd.OutOrStdout(), cf)

	return nil
}

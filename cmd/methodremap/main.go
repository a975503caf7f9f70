// Package main provides the CLI entrypoint for methodremap.
//
// methodremap renames JVM methods in compiled classes:
//   - Reads a mapping table of (owner, name+descriptor, new name) entries
//   - Resolves mappings inherited through superclasses and interfaces
//   - Rewrites call sites and declarations in class files or whole jars
//   - Validates a mapping table against a classpath
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"method-remapper/internal/mapping"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "methodremap",
		Short: "Rename JVM methods in compiled classes",
		Long: `methodremap rewrites class files so that calls to and declarations of
mapped methods use their new names. A mapping declared on a class also
applies to calls made through any of its subclasses or implementors.

Mapping lines have the form "owner name+descriptor newName", e.g.
  a/B foo()V bar`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("mappings", "m", mapping.DefaultFileName, "Mapping file (.txt line format or .yaml)")
	flags.StringArrayP("classpath", "c", nil, "Jar or directory used to resolve ancestors (repeatable)")
	flags.CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	flags.Bool("inherit-declarations", false, "Also rename declarations in classes that only inherit a mapping")

	jarCmd := &cobra.Command{
		Use:   "jar <in> <out>",
		Short: "Rewrite every class of a jar or zip archive",
		Args:  cobra.ExactArgs(2),
		RunE:  runJar,
	}
	jarCmd.Flags().IntP("jobs", "j", 0, "Concurrent shards (default: number of CPUs)")

	classCmd := &cobra.Command{
		Use:   "class <in> <out>",
		Short: "Rewrite a single class file",
		Args:  cobra.ExactArgs(2),
		RunE:  runClass,
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <class>...",
		Short: "Print the effective mappings of classes as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runResolve,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the mapping file against the classpath",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}

	dumpCmd := &cobra.Command{
		Use:   "dump <file.class>",
		Short: "Dump the parsed structure of a class file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}

	rootCmd.AddCommand(jarCmd, classCmd, resolveCmd, checkCmd, dumpCmd)

	return rootCmd
}

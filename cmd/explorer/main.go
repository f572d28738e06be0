// Command explorer is a terminal client for profile lookups, comparisons,
// narrative summaries and local notes. It uses the same services as the
// HTTP server, in process.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/profile-explorer/internal/model"
	"github.com/sakif/profile-explorer/internal/repository"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "explorer",
		Short:         "Explore public GitHub profiles from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().String("config", os.Getenv("CONFIG_PATH"), "Path to a YAML config file")
	root.PersistentFlags().Bool("memory", false, "Keep notes in memory for this run only")
	root.PersistentFlags().Bool("verbose", false, "Log debug output to stderr")

	root.AddCommand(newProfileCmd(a))
	root.AddCommand(newReposCmd(a))
	root.AddCommand(newCompareCmd(a))
	root.AddCommand(newAnalyzeCmd(a))
	root.AddCommand(newNotesCmd(a))
	return root
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <handle>",
		Short: "Show a profile with its repositories and metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.profiles.Lookup(cmd.Context(), args[0])
			if err != nil {
				return userError(err)
			}
			a.out(cmd).Profile(view)
			return nil
		},
	}
}

func newReposCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repos <handle>",
		Short: "List repositories, most recently updated first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := a.profiles.Repositories(cmd.Context(), args[0])
			if err != nil {
				return userError(err)
			}
			a.out(cmd).Repositories(repos)
			return nil
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Compare two profiles metric by metric",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.compare.Compare(cmd.Context(), args[0], args[1])
			if err != nil {
				return userError(err)
			}
			a.out(cmd).Comparison(c)
			return nil
		},
	}
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <handle>",
		Short: "Generate a narrative summary of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.analysis.Analyze(cmd.Context(), args[0])
			if err != nil {
				return userError(err)
			}
			a.out(cmd).Analysis(text)
			return nil
		},
	}
}

func newNotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes on profiles (handle) and repositories (owner/name)",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := repository.ListOptions{}
			opts.Limit, _ = cmd.Flags().GetInt("limit")
			if k, _ := cmd.Flags().GetString("kind"); k != "" {
				kind, ok := model.ParseNoteKind(k)
				if !ok {
					return fmt.Errorf("unknown kind %q (use profile or repository)", k)
				}
				opts.Kind = kind
			}
			notes, err := a.notes.List(cmd.Context(), localDevice, opts)
			if err != nil {
				return userError(err)
			}
			a.out(cmd).Notes(notes)
			return nil
		},
	}
	listCmd.Flags().String("kind", "", "Only list notes of this kind (profile, repository)")
	listCmd.Flags().Int("limit", 0, "Maximum number of notes")

	getCmd := &cobra.Command{
		Use:   "get <target>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := a.notes.Get(cmd.Context(), localDevice, noteTarget(args[0]))
			if err != nil {
				return userError(err)
			}
			a.out(cmd).Note(note)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <target> <text>",
		Short: "Create or replace a note; empty text keeps an empty note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			note, err := a.notes.Save(cmd.Context(), localDevice, noteTarget(args[0]), text)
			if err != nil {
				return userError(err)
			}
			a.out(cmd).Note(note)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <target>",
		Short: "Delete a note; deleting a missing note succeeds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.notes.Delete(cmd.Context(), localDevice, noteTarget(args[0])); err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd, setCmd, deleteCmd)
	return cmd
}

// noteTarget reads "owner/name" as a repository and anything else as a
// profile handle.
func noteTarget(s string) model.NoteKey {
	s = strings.TrimSpace(s)
	if owner, name, ok := strings.Cut(s, "/"); ok {
		return model.RepositoryNoteKey(owner, name)
	}
	return model.ProfileNoteKey(s)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/vtree/filesystem"
	"github.com/brettbedarf/vtree/internal/util"
)

// pathArg returns the optional path argument, defaulting to the current
// directory.
func pathArg(fs *filesystem.Storage[string], args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fs.CurrentPath()
}

func newTreeCmd(opts *rootOptions) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print the subtree below a path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := opts.load(cmd)
			if err != nil {
				return err
			}
			base := pathArg(fs, args)
			walker := fs.Walk(base, filesystem.WalkOptions{Recursive: true, FollowLinks: follow})
			count := 0
			for ctx, err := range walker.All() {
				if err != nil {
					return err
				}
				writeTreeLine(cmd.OutOrStdout(), fs, ctx, base)
				count++
			}
			logger := util.GetLogger("tree")
			logger.Debug().Str("path", base).Int("nodes", count).Msg("Walked subtree")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "L", false, "Descend into linked directories")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the entries of a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := opts.load(cmd)
			if err != nil {
				return err
			}
			nodes, err := fs.Children(pathArg(fs, args), follow)
			if err != nil {
				return err
			}
			sep := fs.Config().Separator
			for _, n := range nodes {
				line := nodeName(n, n.Name(), sep)
				if link, ok := n.(*filesystem.SymbolicLink); ok {
					line += linkSuffix(link, fs)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "L", true, "List the target when the path is a link")
	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Print the physical path a path leads to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := opts.load(cmd)
			if err != nil {
				return err
			}
			resolved, err := fs.ResolvePath(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resolved)
			return nil
		},
	}
}

func newStatCmd(opts *rootOptions) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Print the metadata of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := opts.load(cmd)
			if err != nil {
				return err
			}
			n, err := fs.GetNode(args[0], follow)
			if err != nil {
				return err
			}
			writeStat(cmd.OutOrStdout(), fs, args[0], n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "L", false, "Describe the link target instead of the link")
	return cmd
}

func newGlobCmd(opts *rootOptions) *cobra.Command {
	var (
		follow bool
		kinds  []string
	)
	cmd := &cobra.Command{
		Use:   "glob <pattern>",
		Short: "Print the paths matching a wildcard pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types := make([]filesystem.NodeType, 0, len(kinds))
			for _, k := range kinds {
				t, err := filesystem.ParseNodeType(k)
				if err != nil {
					return err
				}
				types = append(types, t)
			}
			fs, err := opts.load(cmd)
			if err != nil {
				return err
			}
			paths, err := fs.ExpandPath(args[0], filesystem.FilterOf(types...), follow)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "L", false, "Match below linked directories")
	cmd.Flags().StringSliceVarP(&kinds, "type", "t", nil, "Only report these kinds (directory, item, symlink)")
	return cmd
}

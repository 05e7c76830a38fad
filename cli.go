/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Seednode/teamswap/swap"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// systemClipboard writes to the OS clipboard.
var systemClipboard = swap.ClipboardFunc(clipboard.WriteAll)

// withTool opens the registry, runs fn against the named tool and closes
// everything again, which flushes any change fn made.
func withTool(cfg *Config, random swap.Random, name string, fn func(*swap.Tool) error) error {
	reg, err := openRegistry(cfg, random)
	if err != nil {
		return err
	}
	defer func() {
		if err := reg.Close(); err != nil {
			cfg.logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	tool, err := reg.Get(name)
	if err != nil {
		return err
	}

	return fn(tool)
}

func printView(w io.Writer, view swap.View) {
	c := view.Config

	fmt.Fprintf(w, "%s (shuffled %d times)\n", c.Title, view.ShuffleCount)

	lines := swap.FormatRows(view.Values, c.LeftFallback, c.RightFallback)
	for i, line := range lines {
		marker := " "
		if view.Locks[i] {
			marker = "*"
		}

		dup := ""
		if view.Duplicates[i].Left || view.Duplicates[i].Right {
			dup = "  (duplicate)"
		}

		fmt.Fprintf(w, "%s %d %s\t%s%s\n", marker, i, c.Rows[i], line, dup)
	}

	if view.HasDuplicates {
		fmt.Fprintln(w, "warning: some names appear more than once")
	}
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid row index %q: %w", s, err)
	}
	return index, nil
}

func newToolsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List configured tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := toolConfigs(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range configs {
				fmt.Fprintf(out, "%s\t%s\t%s\n", c.Name, c.Title, strings.Join(c.Rows, ", "))
			}

			return nil
		},
	}
}

func newShowCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tool>",
		Short: "Print the current assignments of a tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTool(cfg, nil, args[0], func(tool *swap.Tool) error {
				printView(cmd.OutOrStdout(), tool.View())
				return nil
			})
		},
	}
}

func newSetCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "set <tool> <row> <left|right> <name>",
		Short: "Set one name",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}

			return withTool(cfg, nil, args[0], func(tool *swap.Tool) error {
				if err := tool.SetValue(index, swap.Side(args[2]), args[3]); err != nil {
					return err
				}
				printView(cmd.OutOrStdout(), tool.View())
				return nil
			})
		},
	}
}

func newLockCmd(cfg *Config) *cobra.Command {
	var unlock bool

	cmd := &cobra.Command{
		Use:   "lock <tool> <row>",
		Short: "Lock a row so shuffles leave it alone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}

			return withTool(cfg, nil, args[0], func(tool *swap.Tool) error {
				if err := tool.SetLock(index, !unlock); err != nil {
					return err
				}
				printView(cmd.OutOrStdout(), tool.View())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&unlock, "unlock", false, "release the row instead")

	return cmd
}

func newShuffleCmd(cfg *Config) *cobra.Command {
	var (
		seed   uint32
		toClip bool
	)

	cmd := &cobra.Command{
		Use:   "shuffle <tool>",
		Short: "Shuffle a tool once and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var random swap.Random
			if cmd.Flags().Changed("seed") {
				random = swap.NewSeeded(seed)
			}

			return withTool(cfg, random, args[0], func(tool *swap.Tool) error {
				tool.ShuffleNow()
				printView(cmd.OutOrStdout(), tool.View())

				if toClip {
					fmt.Fprintln(cmd.OutOrStdout(), tool.Copy(systemClipboard))
				}

				return nil
			})
		},
	}

	cmd.Flags().Uint32Var(&seed, "seed", 0, "use a reproducible random sequence")
	cmd.Flags().BoolVar(&toClip, "copy", false, "copy the result to the clipboard")

	return cmd
}

func newCopyCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <tool>",
		Short: "Copy a tool's assignments to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTool(cfg, nil, args[0], func(tool *swap.Tool) error {
				fmt.Fprintln(cmd.OutOrStdout(), tool.Copy(systemClipboard))
				return nil
			})
		},
	}
}

func newClearCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <tool>",
		Short: "Erase every name, keeping locks and the shuffle count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTool(cfg, nil, args[0], func(tool *swap.Tool) error {
				tool.ClearMembers()
				printView(cmd.OutOrStdout(), tool.View())
				return nil
			})
		},
	}
}

func newResetCountCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-count <tool>",
		Short: "Zero the shuffle counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTool(cfg, nil, args[0], func(tool *swap.Tool) error {
				tool.ResetCount()
				printView(cmd.OutOrStdout(), tool.View())
				return nil
			})
		},
	}
}

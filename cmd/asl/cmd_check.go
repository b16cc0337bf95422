package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"asl/internal/grammar"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.asl>...",
	Short: "Parse and validate programs without running them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := new(errgroup.Group)
		for _, path := range args {
			path := path
			g.Go(func() error {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if _, err := grammar.Parse(string(src)); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				return nil
			})
		}
		return g.Wait()
	},
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"asl/internal/grammar"
)

var printCmd = &cobra.Command{
	Use:   "print <file.asl>",
	Short: "Parse a program and print its canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		prog, err := grammar.Parse(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		fmt.Print(prog.String())
		return nil
	},
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcvoid/devalue"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "devalue",
		Short: "Flatten and revive value graphs the devalue way",
		Long: "devalue stringifies or uneval's a JSON document read from stdin (or a file),\n" +
			"and reverses the process with parse/unflatten, preserving cycles and shared\n" +
			"references that plain JSON can't express.",
		SilenceUsage: true,
	}

	root.AddCommand(newStringifyCmd())
	root.AddCommand(newUnevalCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newUnflattenCmd())
	return root
}

func newStringifyCmd() *cobra.Command {
	var inputFile string
	cmd := &cobra.Command{
		Use:   "stringify",
		Short: "Flatten a JSON value into devalue's flat-table JSON form",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readJSONInput(inputFile)
			if err != nil {
				return err
			}
			out, err := devalue.Stringify(v, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read input from a file instead of stdin")
	return cmd
}

func newUnevalCmd() *cobra.Command {
	var inputFile string
	cmd := &cobra.Command{
		Use:   "uneval",
		Short: "Render a JSON value as a JS expression that reconstructs it",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readJSONInput(inputFile)
			if err != nil {
				return err
			}
			out, err := devalue.Uneval(v, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read input from a file instead of stdin")
	return cmd
}

func newParseCmd() *cobra.Command {
	var inputFile string
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Revive a devalue flat-table document back into plain JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readRawInput(inputFile)
			if err != nil {
				return err
			}
			v, err := devalue.Parse(text, nil)
			if err != nil {
				return err
			}
			return writeJSONOutput(cmd.OutOrStdout(), v)
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read input from a file instead of stdin")
	return cmd
}

func newUnflattenCmd() *cobra.Command {
	var inputFile string
	cmd := &cobra.Command{
		Use:   "unflatten",
		Short: "Revive an already-JSON-decoded flat table back into plain JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			flat, err := readJSONInput(inputFile)
			if err != nil {
				return err
			}
			v, err := devalue.Unflatten(flat, nil)
			if err != nil {
				return err
			}
			return writeJSONOutput(cmd.OutOrStdout(), v)
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read input from a file instead of stdin")
	return cmd
}

func readRawInput(file string) (string, error) {
	var r io.Reader = os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", file, err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(b), nil
}

func readJSONInput(file string) (any, error) {
	text, err := readRawInput(file)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("decoding JSON input: %w", err)
	}
	return v, nil
}

func writeJSONOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

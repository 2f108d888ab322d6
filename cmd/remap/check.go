package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <script.rmp>",
	Short: "Validate a transformation script without running it",
	Long:  `Check parses and validates a script, reports every diagnostic, and prints the result type of the program`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	colorMode, quiet, maxDiagnostics, err := rootFlags(cmd)
	if err != nil {
		return err
	}

	cs, err := compileScript(args[0], maxDiagnostics)
	if err != nil {
		return err
	}

	switch format {
	case "pretty":
		if !reportDiagnostics(cs, colorMode) {
			return fmt.Errorf("%s: check failed", args[0])
		}
		if !quiet {
			td := cs.Program.TypeDef()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, resolves to %s\n", args[0], td.Kind())
			if td.IsFallible() {
				fmt.Fprintln(cmd.OutOrStdout(), "note: the program can fail at runtime; failed records go to the rejects stream")
			}
		}
		return nil

	case "json":
		return renderCheckJSON(cmd, args[0], cs)

	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

type checkPayload struct {
	Script      string            `json:"script"`
	OK          bool              `json:"ok"`
	Kind        string            `json:"kind,omitempty"`
	Fallible    bool              `json:"fallible,omitempty"`
	Diagnostics []checkDiagnostic `json:"diagnostics,omitempty"`
}

type checkDiagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Line     uint32 `json:"line"`
	Col      uint32 `json:"col"`
	Doc      string `json:"doc,omitempty"`
}

func renderCheckJSON(cmd *cobra.Command, script string, cs *compiledScript) error {
	payload := checkPayload{Script: script, OK: cs.Program != nil}
	if cs.Program != nil {
		td := cs.Program.TypeDef()
		payload.Kind = td.Kind().String()
		payload.Fallible = td.IsFallible()
	}
	for _, d := range cs.Bag.Items() {
		sp := d.PrimarySpan()
		pos := cs.Files.Position(sp.File, sp.Start)
		payload.Diagnostics = append(payload.Diagnostics, checkDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Line:     pos.Line,
			Col:      pos.Col,
			Doc:      d.Code.DocURL(),
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return err
	}
	if !payload.OK {
		return fmt.Errorf("%s: check failed", script)
	}
	return nil
}

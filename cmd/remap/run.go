package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remap/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [script.rmp]",
	Short: "Run a transformation script over a record stream",
	Long: `Run compiles a script and streams records from stdin through it to stdout.
Records the script aborts or fails on are dropped, or written to the rejects file when one is set.
The script argument can be omitted when a remap.toml manifest names one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("input", "", "input format (json|msgpack)")
	runCmd.Flags().String("output", "", "output format (json|msgpack), defaults to the input format")
	runCmd.Flags().Int("batch", 0, "records per batch (0=default)")
	runCmd.Flags().Int("jobs", 0, "batches resolved concurrently (0=auto)")
	runCmd.Flags().String("rejects", "", "file receiving aborted and failed records")
	runCmd.Flags().Bool("stats", false, "print run statistics to stderr")
}

type runSettings struct {
	script  string
	input   string
	output  string
	batch   int
	jobs    int
	rejects string
}

func runRun(cmd *cobra.Command, args []string) error {
	colorMode, quiet, maxDiagnostics, err := rootFlags(cmd)
	if err != nil {
		return err
	}

	settings, err := collectRunSettings(cmd, args)
	if err != nil {
		return err
	}

	inFormat, err := pipeline.ParseFormat(settings.input)
	if err != nil {
		return err
	}
	outFormat := inFormat
	if settings.output != "" {
		if outFormat, err = pipeline.ParseFormat(settings.output); err != nil {
			return err
		}
	}

	cs, err := compileScript(settings.script, maxDiagnostics)
	if err != nil {
		return err
	}
	if !reportDiagnostics(cs, colorMode) {
		return fmt.Errorf("%s: compilation failed", settings.script)
	}

	rejects, closeRejects, err := openRejects(settings.rejects, outFormat)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(cs.Program, pipeline.Options{
		Format:    inFormat,
		BatchSize: settings.batch,
		Jobs:      settings.jobs,
	})
	stats, runErr := runner.Run(cmd.Context(),
		pipeline.NewDecoder(inFormat, cmd.InOrStdin()),
		pipeline.NewEncoder(outFormat, cmd.OutOrStdout()),
		rejects)
	if closeErr := closeRejects(); runErr == nil {
		runErr = closeErr
	}

	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	if showStats && !quiet {
		fmt.Fprintf(os.Stderr, "%d record(s): %d transformed, %d aborted, %d errored\n",
			stats.Total, stats.Transformed, stats.Aborted, stats.Errored)
	}
	return runErr
}

// collectRunSettings merges flags over the manifest over the built-in
// defaults. Flags win; the manifest fills whatever they leave unset.
func collectRunSettings(cmd *cobra.Command, args []string) (runSettings, error) {
	s := runSettings{}
	var err error
	if s.input, err = cmd.Flags().GetString("input"); err != nil {
		return s, fmt.Errorf("failed to get input flag: %w", err)
	}
	if s.output, err = cmd.Flags().GetString("output"); err != nil {
		return s, fmt.Errorf("failed to get output flag: %w", err)
	}
	if s.batch, err = cmd.Flags().GetInt("batch"); err != nil {
		return s, fmt.Errorf("failed to get batch flag: %w", err)
	}
	if s.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if s.rejects, err = cmd.Flags().GetString("rejects"); err != nil {
		return s, fmt.Errorf("failed to get rejects flag: %w", err)
	}
	if len(args) == 1 {
		s.script = args[0]
	}

	manifest, found, err := loadProjectManifest(".")
	if err != nil {
		return s, err
	}
	if found {
		applyManifest(&s, manifest)
	}

	if s.script == "" {
		return s, fmt.Errorf("no script given and %s", noRemapTomlMessage)
	}
	if s.input == "" {
		s.input = string(pipeline.FormatJSON)
	}
	return s, nil
}

func applyManifest(s *runSettings, m *projectManifest) {
	if s.script == "" {
		s.script = m.ScriptPath()
	}
	p := m.Config.Pipeline
	if s.input == "" {
		s.input = p.Format
	}
	if s.batch == 0 {
		s.batch = p.Batch
	}
	if s.jobs == 0 {
		s.jobs = p.Jobs
	}
	if s.rejects == "" {
		s.rejects = p.Rejects
	}
}

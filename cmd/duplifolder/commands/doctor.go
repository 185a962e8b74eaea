package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/duplifolder/internal/config"
	"github.com/thoreinstein/duplifolder/internal/doctor"
	"github.com/thoreinstein/duplifolder/internal/errors"
)

var (
	doctorJSON   bool
	doctorAll    bool
	doctorFix    bool
	doctorSource string
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show all checks including passed ones")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"create a missing backup root and tighten state file permissions")
	doctorCmd.Flags().StringVarP(&doctorSource, "source", "s", "",
		"folder whose ignore rules are checked (default: current directory)")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "all")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on settings, the state file, the default backup
root and the ignore rules of a source folder.

Output modes:
  (default)   Show errors and warnings
  --all       Show all checks including passed ones
  --json      Machine-readable JSON output
  -q          No output, exit code only

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  duplifolder doctor
  duplifolder doctor --fix`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg := currentConfig()
	out := cmd.OutOrStdout()

	source, err := resolveSource(doctorSource)
	if err != nil {
		return err
	}

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(config.FilePath(), configLoadErr))
	runner.AddCheck(doctor.NewStateFileCheck(cfg.StatePath()))
	runner.AddCheck(doctor.NewBackupRootCheck(cfg.DefaultRoot))
	runner.AddCheck(doctor.NewIgnoreRulesCheck(source, cfg.Mode()))

	report := runner.Run()

	if doctorFix {
		fixed := applyFixes(out, runner.Fixers())
		if fixed > 0 {
			report = runner.Run()
		}
	}

	if err := outputDoctorReport(out, report); err != nil {
		return err
	}

	if code := report.ExitCode(); code != errors.ExitSuccess {
		return errors.NewExitError(nil, code)
	}
	return nil
}

// applyFixes runs each fixer and returns how many fixes succeeded.
func applyFixes(w io.Writer, fixers []doctor.Fixer) int {
	fixed := 0
	for _, f := range fixers {
		for _, r := range f.Fix() {
			switch {
			case r.Fixed:
				fixed++
				if !quiet && !doctorJSON {
					fmt.Fprintf(w, "%s %s: %s\n", colorGreen.Sprint("fixed"), r.Path, r.Description)
				}
			case !quiet && !doctorJSON:
				fmt.Fprintf(w, "%s %s: %s\n", colorYellow.Sprint("not fixed"), r.Path, r.Description)
			}
		}
	}
	if fixed > 0 && !quiet && !doctorJSON {
		fmt.Fprintln(w)
	}
	return fixed
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	if quiet {
		return nil
	}
	if doctorJSON {
		return writeJSON(w, report)
	}
	outputDoctorText(w, report)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Problem()
		if !doctorAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return colorGreen.Sprint("✓")
	case doctor.SeverityInfo:
		return colorCyan.Sprint("ℹ")
	case doctor.SeverityWarning:
		return colorYellow.Sprint("⚠")
	case doctor.SeverityError:
		return colorRed.Sprint("✗")
	default:
		return "?"
	}
}

package commands

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ionx/internal/config"
	"github.com/thoreinstein/ionx/internal/doctor"
	"github.com/thoreinstein/ionx/internal/errors"
)

// doctorOptions holds the output mode flags of ionx doctor.
type doctorOptions struct {
	json    bool
	quiet   bool
	verbose bool
}

func newDoctorCmd(app *App) *cobra.Command {
	var opts doctorOptions

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the project and the host tools",
		Long: `Run diagnostic checks on the host tools and the project in the working
directory.

Checks that bower and cordova are installed, that the ionx configuration,
ionic.project and .bowerrc are valid, which platforms and plugins are
installed, and that project files have safe permissions.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
		Args: cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd.OutOrStdout(), app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false,
		"output results as JSON")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false,
		"suppress output, exit code only")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false,
		"show detailed check-by-check output")
	return cmd
}

// validate ensures output flags are mutually exclusive.
func (o doctorOptions) validate() error {
	count := 0
	for _, set := range []bool{o.json, o.quiet, o.verbose} {
		if set {
			count++
		}
	}
	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "")
	}
	return nil
}

func runDoctor(w io.Writer, app *App, opts doctorOptions) error {
	cfg, loadErr := app.loadConfig()
	if loadErr != nil {
		cfg = config.Default()
	}
	dir, err := app.projectDir()
	if err != nil {
		return err
	}

	checks := doctor.ProjectChecks(dir, cfg, config.Path(), loadErr)
	for _, c := range checks {
		switch c := c.(type) {
		case *doctor.ToolCheck:
			c.LookPath = app.lookPath
		case *doctor.PlatformCheck:
			c.HostOS = app.hostOS
		}
	}

	report := doctor.NewRunner(checks...).Run()

	if err := outputDoctorReport(w, report, opts); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(nil, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(w io.Writer, report *doctor.Report, opts doctorOptions) error {
	if opts.quiet {
		return nil
	}

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(report), "encoding JSON")
	}

	outputDoctorText(w, report, opts.verbose)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && problem {
			fprintf(w, "  hint: %s\n", mutedColor.Sprint(result.FixHint))
		}
	}

	if hasOutput || showAll {
		fprintf(w, "\n")
	}

	fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return successColor.Sprint("✓")
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return warnColor.Sprint("⚠")
	case doctor.SeverityError:
		return errorColor.Sprint("✗")
	default:
		return "?"
	}
}

package commands

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/ionx/internal/cordova"
	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/orchestrator"
	"github.com/thoreinstein/ionx/internal/shell"
)

// buildDescriptor is the static description of a build tool command.
type buildDescriptor struct {
	name    string
	short   string
	long    string
	example string
}

const buildFlagsHelp = `
Options handled by ionx (everything else is passed to the build tool):
  -l, --livereload, --live-reload   point the app at the dev server
  -c, --consolelogs                 print app console logs
  -s, --serverlogs                  print dev server logs
  -p, --port <port>                 dev server port (default 8100)
  -r, --livereload-port <port>      live-reload port (default 35729)
      --address <host>              dev server address
      --dry-run                     print what would run and exit

When no platform is given, ios is used on macOS and android elsewhere.
A missing platform or missing plugins are installed first.`

var emulateDescriptor = buildDescriptor{
	name:  "emulate",
	short: "Emulate the app in a simulator",
	long:  "Build the app and deploy it to a simulator or emulator.\n" + buildFlagsHelp,
	example: `  # Emulate on the default platform
  ionx emulate

  # Emulate android with live-reload on port 8200
  ionx emulate android -l -p 8200

  # Show the plan without running anything
  ionx emulate ios --dry-run`,
}

var runDescriptor = buildDescriptor{
	name:  "run",
	short: "Run the app on a connected device",
	long:  "Build the app and deploy it to a connected device.\n" + buildFlagsHelp,
	example: `  # Run on the default platform
  ionx run

  # Run on android with console logs and a release build
  ionx run android --consolelogs --release`,
}

func newEmulateCmd(app *App) *cobra.Command {
	return newBuildCmd(app, emulateDescriptor)
}

func newRunCmd(app *App) *cobra.Command {
	return newBuildCmd(app, runDescriptor)
}

func newBuildCmd(app *App, d buildDescriptor) *cobra.Command {
	cmd := &cobra.Command{
		Use:     d.name + " [platform] [options]",
		Short:   d.short,
		Long:    d.long,
		Example: d.example,
		// Build tool flags are unknown to ionx and must reach it verbatim.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, app, d.name, args)
		},
	}
	cmd.Flags().Bool("dry-run", false, "print the plan without running anything")
	return cmd
}

func runBuild(cmd *cobra.Command, app *App, name string, raw []string) error {
	rest, err := extractFlags(cmd.Flags(), raw)
	if err != nil {
		return errors.NewUserError(err, "Run 'ionx "+name+" --help' for usage")
	}
	if help, _ := cmd.Flags().GetBool("help"); help {
		return cmd.Help()
	}
	// Global flags were only known after extraction.
	if err := app.setupLogging(cmd); err != nil {
		return err
	}

	inv, err := cordova.ParseInvocation(append([]string{name}, rest...))
	if err != nil {
		return errors.NewUserError(err, "Run 'ionx "+name+" --help' for usage")
	}

	env, err := app.loadEnv()
	if err != nil {
		return err
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		plan, err := env.Orchestrator.Plan(inv)
		if err != nil {
			return err
		}
		printPlan(cmd.OutOrStdout(), env.Tool.Name(), plan)
		return nil
	}

	_, err = env.Orchestrator.Run(cmd.Context(), inv)
	return err
}

func printPlan(w io.Writer, tool string, d *orchestrator.Decision) {
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	fprintf(w, "Platform:          %s\n", d.Platform)
	fprintf(w, "Install platform:  %s\n", yesNo(d.NeedsPlatformInstall))
	fprintf(w, "Install plugins:   %s\n", yesNo(d.NeedsPluginInstall))
	fprintf(w, "Live-reload:       %s\n", yesNo(d.LiveReload))
	fprintf(w, "Command:           %s\n", shell.Command{Name: tool, Args: d.Args}.String())
}

// extractFlags applies the tokens of raw that name flags defined on fs and
// returns the remaining tokens in order. Everything after "--" is kept.
func extractFlags(fs *pflag.FlagSet, raw []string) ([]string, error) {
	var rest []string
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if tok == "--" {
			return append(rest, raw[i:]...), nil
		}
		if !strings.HasPrefix(tok, "-") || tok == "-" {
			rest = append(rest, tok)
			continue
		}

		flags, value, hasValue := lookupFlags(fs, tok)
		if flags == nil {
			rest = append(rest, tok)
			continue
		}

		for _, f := range flags {
			v := value
			switch {
			case hasValue:
			case f.NoOptDefVal != "":
				v = f.NoOptDefVal
			case i+1 < len(raw):
				i++
				v = raw[i]
			default:
				return nil, errors.Newf("flag needs an argument: %s", tok)
			}
			if err := fs.Set(f.Name, v); err != nil {
				return nil, errors.Wrapf(err, "invalid value %q for %s", v, tok)
			}
		}
	}
	return rest, nil
}

// lookupFlags resolves tok to the flags it names. A run of shorthands such
// as -vv resolves only when every letter is a flag that takes no value.
func lookupFlags(fs *pflag.FlagSet, tok string) ([]*pflag.Flag, string, bool) {
	if name, ok := strings.CutPrefix(tok, "--"); ok {
		name, value, hasValue := strings.Cut(name, "=")
		if f := fs.Lookup(name); f != nil {
			return []*pflag.Flag{f}, value, hasValue
		}
		return nil, "", false
	}

	short := strings.TrimPrefix(tok, "-")
	if len(short) == 1 {
		if f := fs.ShorthandLookup(short); f != nil {
			return []*pflag.Flag{f}, "", false
		}
		return nil, "", false
	}

	flags := make([]*pflag.Flag, 0, len(short))
	for _, c := range short {
		f := fs.ShorthandLookup(string(c))
		if f == nil || f.NoOptDefVal == "" {
			return nil, "", false
		}
		flags = append(flags, f)
	}
	return flags, "", false
}

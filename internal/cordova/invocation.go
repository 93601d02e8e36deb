package cordova

import (
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/ionx/internal/errors"
)

// Invocation is a parsed emulate/run argument vector.
type Invocation struct {
	// Command is the build tool verb, e.g. "emulate" or "run".
	Command string

	// Platform is the first positional argument after Command, if any. The
	// value of a known build tool flag such as --target is not positional.
	Platform string

	LiveReload  bool
	ConsoleLogs bool
	ServerLogs  bool

	// Address, Port and LiveReloadPort are zero when not given.
	Address        string
	Port           int
	LiveReloadPort int

	// Args is the vector handed to the build tool: every token except the
	// ionx-only flags, in original order. Tokens after "--" are never parsed.
	Args []string
}

// flagSpec describes an ionx-only flag stripped before calling the build tool.
type flagSpec struct {
	takesValue bool
	apply      func(inv *Invocation, value string) error
}

var ionxFlags = newFlagTable()

func newFlagTable() map[string]*flagSpec {
	boolFlag := func(set func(*Invocation)) *flagSpec {
		return &flagSpec{apply: func(inv *Invocation, _ string) error {
			set(inv)
			return nil
		}}
	}
	portFlag := func(name string, set func(*Invocation, int)) *flagSpec {
		return &flagSpec{takesValue: true, apply: func(inv *Invocation, v string) error {
			port, err := strconv.Atoi(v)
			if err != nil || port < 1 || port > 65535 {
				return errors.Newf("invalid value %q for --%s", v, name)
			}
			set(inv, port)
			return nil
		}}
	}

	liveReload := boolFlag(func(inv *Invocation) { inv.LiveReload = true })
	consoleLogs := boolFlag(func(inv *Invocation) { inv.ConsoleLogs = true })
	serverLogs := boolFlag(func(inv *Invocation) { inv.ServerLogs = true })
	port := portFlag("port", func(inv *Invocation, p int) { inv.Port = p })
	lrPort := portFlag("livereload-port", func(inv *Invocation, p int) { inv.LiveReloadPort = p })
	address := &flagSpec{takesValue: true, apply: func(inv *Invocation, v string) error {
		if v == "" {
			return errors.New("--address requires a value")
		}
		inv.Address = v
		return nil
	}}

	return map[string]*flagSpec{
		"--livereload":      liveReload,
		"--live-reload":     liveReload,
		"-l":                liveReload,
		"--consolelogs":     consoleLogs,
		"-c":                consoleLogs,
		"--serverlogs":      serverLogs,
		"-s":                serverLogs,
		"--port":            port,
		"-p":                port,
		"--livereload-port": lrPort,
		"-r":                lrPort,
		"--address":         address,
	}
}

// toolValueFlags are build tool flags whose next token is their value, so
// that value is never taken for the platform.
var toolValueFlags = map[string]bool{
	"--target":              true,
	"--buildConfig":         true,
	"--archs":               true,
	"--keystore":            true,
	"--storePassword":       true,
	"--alias":               true,
	"--password":            true,
	"--packageType":         true,
	"--codeSignIdentity":    true,
	"--provisioningProfile": true,
	"--developmentTeam":     true,
}

// ParseInvocation splits raw (starting with the command verb) into ionx
// options and the pass-through vector.
func ParseInvocation(raw []string) (*Invocation, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing command")
	}
	inv := &Invocation{Command: raw[0], Args: []string{raw[0]}}

	for i := 1; i < len(raw); i++ {
		tok := raw[i]
		if tok == "--" {
			inv.Args = append(inv.Args, raw[i:]...)
			break
		}

		name, value, hasValue := strings.Cut(tok, "=")
		if !strings.HasPrefix(tok, "-") {
			name, hasValue = tok, false
		}

		f, ok := ionxFlags[name]
		if !ok {
			inv.Args = append(inv.Args, tok)
			if toolValueFlags[name] && !hasValue && i+1 < len(raw) {
				i++
				inv.Args = append(inv.Args, raw[i])
				continue
			}
			if inv.Platform == "" && !strings.HasPrefix(tok, "-") {
				inv.Platform = tok
			}
			continue
		}

		if f.takesValue && !hasValue {
			if i+1 >= len(raw) {
				return nil, errors.Newf("flag %s requires a value", name)
			}
			i++
			value = raw[i]
		}
		if err := f.apply(inv, value); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// FilterArgs returns raw without the ionx-only flags.
func FilterArgs(raw []string) ([]string, error) {
	inv, err := ParseInvocation(raw)
	if err != nil {
		return nil, err
	}
	return inv.Args, nil
}

// HasPlatform reports whether the platform was given explicitly.
func (inv *Invocation) HasPlatform() bool {
	return inv.Platform != ""
}

// WithPlatform returns the pass-through vector with platform appended when
// none was given. The platform goes before a "--" separator.
func (inv *Invocation) WithPlatform(platform string) []string {
	if inv.HasPlatform() {
		return append([]string(nil), inv.Args...)
	}
	end := slices.Index(inv.Args, "--")
	if end < 0 {
		end = len(inv.Args)
	}
	args := make([]string, 0, len(inv.Args)+1)
	args = append(args, inv.Args[:end]...)
	args = append(args, platform)
	return append(args, inv.Args[end:]...)
}

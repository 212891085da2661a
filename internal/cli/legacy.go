package cli

// legacySwitches are the multi-letter single-dash switches older releases
// accepted. pflag only allows one-letter shorthands.
var legacySwitches = map[string]string{
	"-rcm": "--recommend",
	"-ls":  "--list",
}

// NormalizeArgs rewrites legacy switches to their long forms. Arguments after
// "--" are left alone.
func NormalizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i, arg := range out {
		if arg == "--" {
			break
		}
		if long, ok := legacySwitches[arg]; ok {
			out[i] = long
		}
	}
	return out
}

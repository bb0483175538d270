package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/fibmod/internal/ui"
)

// setCustomUsage configures the flag set with a colored usage function.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		// Respect NO_COLOR even before app initialization
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}

		out := fs.Output()

		fmt.Fprintf(out, "\n%sFibonacci Modulo Calculator%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Computes F(n) mod m through Pisano period tables.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n  echo \"n m\" | %s [flags]\n\n%sFlags:%s\n",
			t.Warning, t.Reset, fs.Name(), fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			flagSig := fmt.Sprintf("-%s", f.Name)
			if len(name) > 0 {
				flagSig += " " + name
			}

			fmt.Fprintf(out, "  %s%-25s%s %s", t.Primary, flagSig, t.Reset, usage)

			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintf(out, "\n%sEnvironment:%s\n  Every flag can be set as %sNAME (e.g. %sALGO=doubling), also from the -env-file.\n  %s selects the color palette (dark, light). NO_COLOR disables colors.\n\n",
			t.Warning, t.Reset, EnvPrefix, EnvPrefix, ui.ThemeEnvVar)
	}
}

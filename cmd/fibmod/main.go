// Command fibmod computes F(n) mod m for arbitrarily large n.
//
// Usage:
//
//	fibmod -n 2816213588 -m 13
//	echo "99999999999999999 1000000000" | fibmod -q
package main

import (
	"context"
	"os"

	"github.com/agbru/fibmod/internal/app"
	apperrors "github.com/agbru/fibmod/internal/errors"
)

func main() {
	if args := os.Args[1:]; app.HasVersionFlag(args) {
		if err := app.PrintVersion(os.Stdout, app.HasJSONFlag(args)); err != nil {
			os.Exit(apperrors.ExitErrorGeneric)
		}
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stdin, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}
	os.Exit(application.Run(context.Background(), os.Stdout))
}

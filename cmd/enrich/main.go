package main

import (
	"fmt"
	"log/slog"
	"os"

	"infosources-backend/cmd/enrich/cmd"
	"infosources-backend/lib/osutil"
	"infosources-backend/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "enrich")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() {
		if err := tel.Shutdown(ctx); err != nil {
			slog.Warn("telemetry shutdown failed", "err", err)
		}
	}()

	cmd.Execute(ctx)
}

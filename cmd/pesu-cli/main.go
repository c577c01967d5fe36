package main

import (
	"pesuassist-backend/cmd/pesu-cli/commands"
	"pesuassist-backend/lib/osutil"
	"pesuassist-backend/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "pesu-cli")
	telemetry.InitSlog(false)
	commands.ExecuteContext(ctx)
}

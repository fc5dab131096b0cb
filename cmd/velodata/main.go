package main

import (
	"context"
	"velodata-backend/cmd/velodata/commands"
	"velodata-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "velodata-cli")
	commands.ExecuteContext(context.Background())
}

// Command mapfcore is the MAPF solver CLI: solve an instance, generate a
// random one, or convert between the instance file formats of spec.md §6.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/elektrokombinacija/mapf-core/internal/cli"
)

var CLI struct {
	Solve   cli.SolveCommand   `cmd:"" help:"Solve an instance with CBS or EPEA*"`
	Bench   cli.BenchCommand   `cmd:"" help:"Sweep random instances and log results to CSV"`
	Gen     cli.GenCommand     `cmd:"" help:"Generate a random instance"`
	Convert cli.ConvertCommand `cmd:"" help:"Convert an instance between file formats"`
}

func main() {
	log.SetLevel(log.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("mapfcore"),
		kong.Description("Multi-agent pathfinding: CBS and EPEA* over a shared grid."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		log.Fatal("command failed", "error", err)
	}
}

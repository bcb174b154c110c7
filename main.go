package main

import (
	"github.com/alecthomas/kong"

	"starburger.dev/FoodCart/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("FoodCart"), kong.Description("FoodCart is the order-management backend of the Star Burger food delivery service."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}

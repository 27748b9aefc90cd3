package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/a2aaron/soda-pop/compiler"
	"github.com/a2aaron/soda-pop/compiler/format"
)

func main() {
	examplesCmd := &cli.Command{
		Name:   "examples",
		Action: examplesAct,
		Args:   cli.Args{},
	}

	lowerCmd := &cli.Command{
		Name:   "lower",
		Action: lowerAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "soda",
		Description: "soda lowers soda-pop syntax trees to register bytecode",
		Commands: []*cli.Command{
			examplesCmd,
			lowerCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func examplesAct(c *cli.Command) error {
	for _, name := range exampleNames() {
		fmt.Printf("%s\n", name)
	}

	return nil
}

func lowerAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	names := []string(c.Args)
	if len(names) == 0 {
		names = exampleNames()
	}

	for _, name := range names {
		prog, ok := examples[name]
		if !ok {
			return errors.New("unknown example: %v", name)
		}

		fn, err := compiler.Compile(ctx, prog)
		if err != nil {
			return errors.Wrap(err, "compile %v", name)
		}

		fmt.Printf("// %s\n%s\n", name, format.Func(nil, fn))
	}

	return nil
}

func exampleNames() []string {
	names := make([]string, 0, len(examples))

	for name := range examples {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

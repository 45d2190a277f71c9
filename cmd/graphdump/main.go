package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/gravity/collections"
	"github.com/delaneyj/gravity/graph"
)

const (
	writesKey  = "writes"
	compactKey = "compact"
)

func main() {
	cmd := &cli.Command{
		Name:  "graphdump",
		Usage: "Build a demo reactive graph and dump its node registry",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  writesKey,
				Usage: "Number of writes to apply before dumping",
				Value: 3,
			},
			&cli.BoolFlag{
				Name:  compactKey,
				Usage: "Compact disposed nodes out of the registry before dumping",
				Value: true,
			},
		},
		Action: dump,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func dump(ctx context.Context, cmd *cli.Command) error {
	rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
		log.Printf("error from %s: %v", from.Label(), err)
	})

	price := graph.Signal(rs, 100.0).WithLabel("price")
	qty := graph.Signal(rs, 2).WithLabel("qty")
	subtotal := graph.Computed(rs, func(oldValue float64) float64 {
		return price.Value() * float64(qty.Value())
	}).WithLabel("subtotal")
	total := graph.Computed(rs, func(oldValue float64) float64 {
		return subtotal.Value() * 1.08
	}).WithLabel("total")

	graph.Effect(rs, func() error {
		log.Printf("total is now %.2f", total.Value())
		return nil
	}, graph.EffectLabel("totalLogger"))

	lines := collections.List(rs, []string{"first"})
	dispose := lines.Subscribe(func(newValue, oldValue []string) error {
		log.Printf("lines: %v", newValue)
		return nil
	})

	writes := int(cmd.Uint(writesKey))
	for i := 0; i < writes; i++ {
		price.SetValue(price.Peek() + 5)
		qty.SetValue(qty.Peek() + 1)
		lines.Append(fmt.Sprintf("write %d", i))
	}

	dispose()
	if cmd.Bool(compactKey) {
		rs.Compact()
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"id", "kind", "label", "version", "deps", "subs", "disposed"})
	for _, info := range rs.Nodes() {
		table.Append([]string{
			strconv.FormatUint(info.ID, 10),
			info.Kind.String(),
			info.Label,
			strconv.FormatUint(info.Version, 10),
			fmt.Sprintf("%v", info.DependencyIDs),
			fmt.Sprintf("%v", info.SubscriberIDs),
			strconv.FormatBool(info.Disposed),
		})
	}
	table.Render()

	return nil
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/delaneyj/gravity/graph"
)

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100}
	iters = 100
)

func main() {
	flag.Parse()
	log.Printf("warming up")
	benchmarkPropagation(true)
}

func benchmarkPropagation(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Gravity Signals")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := graph.CreateReactiveSystem(func(from graph.Node, err error) {
				log.Panic(err)
			})
			src := graph.Signal(rs, 1)
			for i := 0; i < w; i++ {
				last := graph.Readable[int](src)
				for j := 0; j < h; j++ {
					prev := last
					last = graph.Computed(rs, func(oldValue int) int {
						return prev.Value() + 1
					})
				}

				tail := last
				graph.Effect(rs, func() error {
					tail.Value()
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Peek() + 1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	runtime.ReadMemStats(&after)

	if shouldRender {
		tbl.Render()
		log.Printf(
			"allocated %s across %s objects",
			humanize.Bytes(after.TotalAlloc-before.TotalAlloc),
			humanize.Comma(int64(after.Mallocs-before.Mallocs)),
		)
	}
}

// Profiling:
// go build ./profile/rows
// go tool pprof -http=":8000" -nodefraction=0.001 ./rows mem.pprof

package main

import (
	"github.com/TheBitDrifter/stockpile"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
	S []byte
}

func main() {
	rounds := 50
	iters := 100
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	c1 := stockpile.FactoryNewComponent[comp1]()
	c2 := stockpile.FactoryNewComponent[comp2]()
	sel := stockpile.Select(c1, c2)

	for range rounds {
		w := stockpile.Factory.NewWorld()
		layout := w.Layout(c1, c2)

		for range iters {
			for range numEntities {
				_, row, _ := w.CreateEntity(layout)
				c2.Emplace(row.Select(c2), comp2{V: 1, W: 2})
			}
			for _, view := range w.Query(sel) {
				a, b := c1.Get(view), c2.Get(view)
				a.V += b.V
				a.W += b.W
			}
			w.Clear()
		}
	}
}

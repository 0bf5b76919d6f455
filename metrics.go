package stockpile

import (
	"strconv"

	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/prometheus/client_golang/prometheus"
)

type worldCollector struct {
	world      World
	entities   *prometheus.Desc
	archetypes *prometheus.Desc
	rows       *prometheus.Desc
	capacity   *prometheus.Desc
}

// NewCollector exposes a world's entity, archetype and row counts as
// Prometheus gauges. The world is not synchronised: gather from the goroutine
// that owns it, or while it is otherwise idle.
func NewCollector(w World) prometheus.Collector {
	labels := []string{"archetype", "layout"}
	constLabels := prometheus.Labels{"world": w.ID().String()}
	return &worldCollector{
		world: w,
		entities: prometheus.NewDesc("stockpile_entities",
			"Number of live entities.", nil, constLabels),
		archetypes: prometheus.NewDesc("stockpile_archetypes",
			"Number of archetypes.", nil, constLabels),
		rows: prometheus.NewDesc("stockpile_archetype_rows",
			"Rows stored in an archetype.", labels, constLabels),
		capacity: prometheus.NewDesc("stockpile_archetype_capacity",
			"Rows an archetype can hold before growing.", labels, constLabels),
	}
}

func (c *worldCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entities
	ch <- c.archetypes
	ch <- c.rows
	ch <- c.capacity
}

func (c *worldCollector) Collect(ch chan<- prometheus.Metric) {
	archetypes := iter_util.Collect(c.world.Archetypes())

	ch <- prometheus.MustNewConstMetric(c.entities, prometheus.GaugeValue, float64(c.world.Len()))
	ch <- prometheus.MustNewConstMetric(c.archetypes, prometheus.GaugeValue, float64(len(archetypes)))
	for _, a := range archetypes {
		id := strconv.Itoa(a.ID())
		key := a.Layout().Key()
		ch <- prometheus.MustNewConstMetric(c.rows, prometheus.GaugeValue, float64(a.Len()), id, key)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(a.Cap()), id, key)
	}
}

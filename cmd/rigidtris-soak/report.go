package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/game"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Timestep float64
	Seed     uint64
	Lanes    int
	Rows     int

	// Results
	TotalTicks     int64
	SimulatedTime  time.Duration
	TotalTime      time.Duration
	TickTime       Stats
	Restarts       int
	Game           game.Stats
	Health         float64
	Bodies         int
	Joints         int
	Scheduler      *ecs.SchedulerStats
	Storage        *ecs.StorageStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
	s.P99 = percentile(s.Samples, 0.99)
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# rigidtris Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Timestep:** {{printf "%.4f" .Timestep}}s
- **Seed:** {{.Seed}}
- **Board:** {{.Lanes}}x{{.Rows}}

## Performance Results
- **Total Ticks:** {{.TotalTicks}}
- **Simulated Time:** {{.SimulatedTime}}
- **Wall Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **P99:** {{.TickTime.P99}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

## Systems
Ticks: {{.Scheduler.Ticks}}

| System | Runs | Avg | Max |
|---|---|---|---|
{{- range .Scheduler.Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Game
- **Restarts:** {{.Restarts}}
- **Generated Blocks:** {{.Game.GeneratedBlocks}}
- **Cleared Blocks:** {{.Game.ClearedBlocks}}
- **Lost Blocks:** {{.Game.LostBlocks}}
- **Lost Tetromino:** {{.Game.LostTetromino}}
- **Health:** {{printf "%.3f" .Health}}
- **Live Bodies:** {{.Bodies}}
- **Live Joints:** {{.Joints}}
- **Entities:** {{.Storage.TotalEntityCount}} in {{.Storage.ArchetypeCount}} archetypes

## Memory Usage (MB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end)
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end)
- Sys Memory:     {{mb .MemStatsStart.Sys}} (start) -> {{mb .MemStatsEnd.Sys}} (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

package main

import (
	"fmt"
	"io"
	"math"
	"text/template"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/lantern/scheduler"
)

type Report struct {
	// Configuration
	Title    string
	Mode     string
	Interval time.Duration

	// Results
	TotalTime time.Duration
	Scheduler *scheduler.SchedulerStats
	Actors    []ActorReport
}

type ActorReport struct {
	Name        string
	Kind        string
	State       string
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
	Model       string
	Pushes      uint64
	Suppressed  uint64
	LastError   error
}

func (r *Report) collect(st *stage) {
	r.Scheduler = st.scheduler.GetStats()
	r.Actors = r.Actors[:0]
	for _, c := range st.actors {
		diag := c.actor.Diagnostics()
		ar := ActorReport{
			Name:        c.actor.Name(),
			Kind:        c.actor.Kind().Name,
			State:       c.actor.State().String(),
			Translation: c.transform.Translation(),
			Rotation:    c.transform.Rotation(),
			Scale:       c.transform.Scale(),
			Model:       "-",
			Pushes:      diag.Pushes,
			Suppressed:  diag.Suppressed,
			LastError:   diag.LastError,
		}
		if m := c.transform.Model(); m != nil {
			ar.Model = m.String()
		}
		r.Actors = append(r.Actors, ar)
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Title Report: {{.Title}}

## Run
- **Mode:** {{.Mode}}
- **Tick Interval:** {{.Interval}}
- **Total Time:** {{.TotalTime}}
- **Ticks:** {{.Scheduler.Ticks}}
- **Phases:** {{.Scheduler.PhaseCount}}
- **Executions:** {{.Scheduler.TotalExecutions}} ({{.Scheduler.TotalFailures}} failed)

## Tasks
{{range .Scheduler.Tasks}}- {{.Phase}}/{{.Name}} #{{.Id}} runs={{.ExecutionCount}} failed={{.FailureCount}} avg={{.AvgDuration}} max={{.MaxDuration}}{{if .Scheduled}}{{else}} (removed){{end}}
{{end}}
## Actors
{{range .Actors}}- **{{.Name}}** ({{.Kind}}, {{.State}})
  - position: {{vec .Translation}}
  - orientation: {{quat .Rotation}} ({{angle .Rotation}} rad)
  - scale: {{vec .Scale}}
  - model: {{.Model}}
  - pushes: {{.Pushes}} ({{.Suppressed}} suppressed){{if .LastError}}
  - last error: {{.LastError}}{{end}}
{{end}}`

	fm := template.FuncMap{
		"vec": func(v mgl32.Vec3) string {
			return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
		},
		"quat": func(q mgl32.Quat) string {
			return fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", q.V[0], q.V[1], q.V[2], q.W)
		},
		"angle": func(q mgl32.Quat) string {
			return fmt.Sprintf("%.3f", quatAngle(q))
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

// quatAngle returns the rotation angle of q in radians.
func quatAngle(q mgl32.Quat) float64 {
	w := float64(q.Normalize().W)
	return 2 * math.Acos(math.Max(-1, math.Min(1, w)))
}

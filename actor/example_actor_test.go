package actor_test

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/lantern/actor"
	"github.com/plus3/lantern/props"
	"github.com/plus3/lantern/role"
	"github.com/plus3/lantern/scheduler"
)

// ExampleActor spawns a cube, registers it with the actor phase and lets it
// spin for three ticks.
func ExampleActor() {
	s := scheduler.New(scheduler.WithPhases(scheduler.DefaultPhases...))
	rec := role.NewRecorder()

	cube := actor.NewCube(rec, actor.WithName("spinner"))
	_ = cube.Set(props.Position, props.NewStream(props.StreamRaw, props.EncodeVec3(mgl32.Vec3{0, 2, 0})))
	_ = cube.Set(props.Orientation, props.NewStream(props.StreamRaw, props.EncodeQuat(mgl32.QuatIdent())))

	if err := cube.Init(s); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cube.State(), rec.Kinds())

	for i := 0; i < 3; i++ {
		s.Once(1.0 / 60)
	}

	q, _ := cube.Orientation()
	fmt.Printf("angle %.3f\n", 2*math.Acos(float64(q.W)))

	_ = cube.Dispose(s)
	fmt.Println(cube.State(), s.Phase(scheduler.ActorPhase).Len())

	// Output:
	// active [rotation translation]
	// angle 0.105
	// disposed 0
}

package body

import "github.com/Versifine/walker/internal/physics"

// InputState is the per-tick action format handed from the input layer to
// the body. It aliases physics.InputState to avoid field divergence.
type InputState = physics.InputState

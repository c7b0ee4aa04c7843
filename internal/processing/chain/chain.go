package chain

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ProcessingStep transforms one single-channel raster into a new one.
// Implementations never modify their input.
type ProcessingStep interface {
	Apply(input gocv.Mat) (gocv.Mat, error)
	Name() string
}

// ProcessingChain runs steps in order, releasing every intermediate result.
type ProcessingChain struct {
	steps []ProcessingStep
}

func NewProcessingChain(steps ...ProcessingStep) *ProcessingChain {
	return &ProcessingChain{
		steps: steps,
	}
}

// Execute returns a new matrix owned by the caller. The input is left
// untouched and is cloned when the chain is empty.
func (pc *ProcessingChain) Execute(input gocv.Mat) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("processing chain input is empty")
	}

	current := input
	owned := false

	for _, step := range pc.steps {
		result, err := step.Apply(current)
		if owned {
			current.Close()
		}
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("step %s failed: %w", step.Name(), err)
		}

		current = result
		owned = true
	}

	if !owned {
		return input.Clone(), nil
	}
	return current, nil
}

package operations

import (
	"fmt"

	"github.com/npillmayer/tracescope/parser"
	"github.com/npillmayer/tracescope/propertytree"
)

// Operation computes derived properties of a property tree in place.
type Operation interface {
	Name() string
	Apply(root *propertytree.Node) error
}

// Pipeline is a fixed sequence of operations.
type Pipeline struct {
	ops []Operation
}

// NewPipeline creates a pipeline running ops in the given order.
func NewPipeline(ops ...Operation) *Pipeline {
	return &Pipeline{ops: ops}
}

// Operations returns the operations of p in execution order.
func (p *Pipeline) Operations() []Operation {
	return append([]Operation(nil), p.ops...)
}

// Apply runs every operation on root, each one seeing the output of its
// predecessor, and freezes the tree afterwards. It returns root to allow
// for chaining.
func (p *Pipeline) Apply(root *propertytree.Node) (*propertytree.Node, error) {
	if root == nil || !root.IsRoot() {
		return nil, fmt.Errorf("pipeline needs the root of a property tree")
	}
	if p != nil {
		for _, op := range p.ops {
			if err := op.Apply(root); err != nil {
				tracer().P("op", op.Name()).Errorf("operation failed on %s: %v", root.ID(), err)
				return nil, fmt.Errorf("operation %s: %w", op.Name(), err)
			}
		}
	}
	if err := root.Freeze(); err != nil {
		return nil, err
	}
	return root, nil
}

// ForTraceType returns the pipeline declared for a trace type. Trace types
// without derived properties get an empty pipeline, which just freezes trees.
func ForTraceType(t parser.TraceType) *Pipeline {
	switch t {
	case parser.SurfaceFlinger:
		return NewPipeline(
			AddDisplayProperties{},
			AddLayerVisibility{},
			CountActiveDisplays{},
		)
	case parser.WindowManager:
		return NewPipeline(
			AddEnumNames{Container: []string{"windowManagerService", "windows"}, Field: "type", Enum: parser.WindowType},
		)
	}
	return NewPipeline()
}

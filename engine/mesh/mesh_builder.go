package mesh

// meshConfig collects construction options shared by both mesh kinds.
type meshConfig struct {
	label    string
	capacity int
}

// MeshBuilderOption is a functional option applied to a mesh during construction.
type MeshBuilderOption func(*meshConfig)

// WithLabel sets the debug label used for the mesh's GPU buffers.
//
// Parameters:
//   - label: the label prefix for the vertex and index buffers
//
// Returns:
//   - MeshBuilderOption: a function that applies the label option to a mesh
func WithLabel(label string) MeshBuilderOption {
	return func(c *meshConfig) {
		c.label = label
	}
}

// WithCapacity reserves room for at least n vertices in a dynamic mesh's vertex buffer, so the
// mirror can grow or be appended to without reallocating. Static meshes ignore it.
//
// Parameters:
//   - n: the minimum vertex capacity
//
// Returns:
//   - MeshBuilderOption: a function that applies the capacity option to a mesh
func WithCapacity(n int) MeshBuilderOption {
	return func(c *meshConfig) {
		c.capacity = max(n, 0)
	}
}

func newMeshConfig(defaultLabel string, opts ...MeshBuilderOption) meshConfig {
	c := meshConfig{label: defaultLabel}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

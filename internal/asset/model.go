package asset

// Model is the renderable handle the loader resolves a model id to.
type Model struct {
	ID           string
	Version      string
	Generator    string
	SceneName    string
	Nodes        []string
	Meshes       []Mesh
	BinaryLength int
}

type Mesh struct {
	Name          string
	Primitives    int
	CastShadow    bool
	ReceiveShadow bool
}

// Traverse calls fn for every mesh in the model.
func (m *Model) Traverse(fn func(*Mesh)) {
	if m == nil {
		return
	}
	for i := range m.Meshes {
		fn(&m.Meshes[i])
	}
}

// EnableShadows marks every mesh as both casting and receiving shadows.
func (m *Model) EnableShadows() {
	m.Traverse(func(mesh *Mesh) {
		mesh.CastShadow = true
		mesh.ReceiveShadow = true
	})
}

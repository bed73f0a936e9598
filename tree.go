package slice3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Batch is a polygon list stored in a Tree together with how to draw it.
type Batch struct {
	Polys *SliceResult
	// Min and Max bound the color scale of the values. NaN means the
	// range of the values themselves.
	Min, Max float64
	// Iso marks an isosurface shaded by lighting instead of values.
	Iso bool
	// Edges draws polygon outlines.
	Edges bool
}

// NewBatch wraps r with an automatic color range.
func NewBatch(r *SliceResult) Batch {
	return Batch{Polys: r, Min: math.NaN(), Max: math.NaN(), Iso: r.PolygonValues() == nil}
}

func (b Batch) with(r *SliceResult) Batch {
	b.Polys = r
	return b
}

// ColorRange resolves NaN bounds against the batch values.
func (b Batch) ColorRange() (float64, float64) {
	lo, hi := b.Min, b.Max
	if math.IsNaN(lo) || math.IsNaN(hi) {
		vlo, vhi := b.Polys.ValueRange()
		if math.IsNaN(lo) {
			lo = vlo
		}
		if math.IsNaN(hi) {
			hi = vhi
		}
	}
	return lo, hi
}

// Leaf is what Walk hands to its visitor: the batches of one tree leaf.
// InPlane leaves lie in a splitting plane; other leaves need depth sorting.
type Leaf struct {
	Batches []Batch
	InPlane bool
}

const noNode = -1

type treeNode struct {
	plane    Plane
	hasPlane bool
	back     int
	front    int
	// leaf is the in-plane leaf of a node with a plane, or all the
	// content of a plain leaf
	leaf []Batch
}

type TreeState int

const (
	TreeEmpty TreeState = iota
	TreeLeafOnly
	TreeInternal
)

func (s TreeState) String() string {
	switch s {
	case TreeEmpty:
		return "empty"
	case TreeLeafOnly:
		return "leaf"
	}
	return "internal"
}

// Tree is a binary tree of splitting planes. Every batch inserted is
// clipped by the planes already present, so no stored polygon straddles a
// plane of the tree. Walking it toward a viewer yields every polygon in
// back-to-front order between regions.
//
// Nodes live in a slice and are addressed by index; insertion and walking
// use explicit stacks. A Tree is not safe for concurrent use.
type Tree struct {
	nodes []treeNode
	root  int
	eps   float64
}

// NewTree returns an empty tree. Only the Precision option is used; it is
// the distance within which points count as lying on a plane.
func NewTree(opts ...Option) *Tree {
	o := buildOptions(opts)
	return &Tree{root: noNode, eps: o.Precision}
}

func (t *Tree) State() TreeState {
	switch {
	case t.root == noNode:
		return TreeEmpty
	case !t.nodes[t.root].hasPlane:
		return TreeLeafOnly
	}
	return TreeInternal
}

// Clear discards every node.
func (t *Tree) Clear() {
	t.nodes = nil
	t.root = noNode
}

// Len is the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) newNode(n treeNode) int {
	n.back, n.front = noNode, noNode
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// Insert adds a batch that defines no plane, such as an isosurface. It is
// clipped down the tree and its pieces join the leaves they reach.
func (t *Tree) Insert(b Batch) {
	if b.Polys.Empty() {
		return
	}
	if t.root == noNode {
		t.root = t.newNode(treeNode{leaf: []Batch{b}})
		return
	}
	type item struct {
		node  int
		batch Batch
	}
	stack := []item{{t.root, b}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[it.node]
		if !n.hasPlane {
			n.leaf = append(n.leaf, it.batch)
			continue
		}
		back, front := n.plane.Split(it.batch.Polys, t.eps)
		if !front.Empty() {
			if n.front == noNode {
				idx := t.newNode(treeNode{leaf: []Batch{it.batch.with(front)}})
				t.nodes[it.node].front = idx
			} else {
				stack = append(stack, item{n.front, it.batch.with(front)})
			}
		}
		n = &t.nodes[it.node]
		if !back.Empty() {
			if n.back == noNode {
				idx := t.newNode(treeNode{leaf: []Batch{it.batch.with(back)}})
				t.nodes[it.node].back = idx
			} else {
				stack = append(stack, item{n.back, it.batch.with(back)})
			}
		}
	}
	Logger().Debug("tree insert", "nodes", len(t.nodes), "polygons", b.Polys.NumPolygons())
}

// InsertPlane adds a batch whose polygons all lie in p, making p a
// splitting plane. Pieces landing on a plain leaf turn it into a node for p
// and clip the leaf's content into its two sides; pieces reaching an empty
// side become a new node for p. A batch coplanar with an existing plane
// joins that plane's in-plane leaf. A degenerate plane inserts the batch
// like Insert.
func (t *Tree) InsertPlane(b Batch, p Plane) {
	if b.Polys.Empty() {
		return
	}
	if p.Degenerate() {
		t.Insert(b)
		return
	}
	planeNode := func(batch Batch) int {
		return t.newNode(treeNode{plane: p, hasPlane: true, leaf: []Batch{batch}})
	}
	if t.root == noNode {
		t.root = planeNode(b)
		return
	}
	type item struct {
		node  int
		batch Batch
	}
	tol := math.Max(t.eps, 1e-9)
	stack := []item{{t.root, b}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[it.node]

		if !n.hasPlane {
			old := n.leaf
			n.plane, n.hasPlane = p, true
			n.leaf = []Batch{it.batch}
			var backs, fronts []Batch
			for _, ob := range old {
				back, front := p.Split(ob.Polys, t.eps)
				if !back.Empty() {
					backs = append(backs, ob.with(back))
				}
				if !front.Empty() {
					fronts = append(fronts, ob.with(front))
				}
			}
			if len(backs) > 0 {
				idx := t.newNode(treeNode{leaf: backs})
				t.nodes[it.node].back = idx
			}
			if len(fronts) > 0 {
				idx := t.newNode(treeNode{leaf: fronts})
				t.nodes[it.node].front = idx
			}
			continue
		}

		if n.plane.Coincident(p, tol) {
			n.leaf = append(n.leaf, it.batch)
			continue
		}
		back, front := n.plane.Split(it.batch.Polys, t.eps)
		for _, side := range []struct {
			piece *SliceResult
			front bool
		}{{front, true}, {back, false}} {
			if side.piece.Empty() {
				continue
			}
			child := t.nodes[it.node].back
			if side.front {
				child = t.nodes[it.node].front
			}
			if child != noNode {
				stack = append(stack, item{child, it.batch.with(side.piece)})
				continue
			}
			idx := planeNode(it.batch.with(side.piece))
			if side.front {
				t.nodes[it.node].front = idx
			} else {
				t.nodes[it.node].back = idx
			}
		}
	}
	Logger().Debug("tree insert plane", "nodes", len(t.nodes), "polygons", b.Polys.NumPolygons())
}

// Count is the number of polygons stored across all leaves.
func (t *Tree) Count() int {
	n := 0
	for _, nd := range t.nodes {
		for _, b := range nd.leaf {
			n += b.Polys.NumPolygons()
		}
	}
	return n
}

// Depth is the number of nodes on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	if t.root == noNode {
		return 0
	}
	type item struct{ node, depth int }
	deepest := 0
	stack := []item{{t.root, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		deepest = max(deepest, it.depth)
		n := t.nodes[it.node]
		for _, c := range [2]int{n.back, n.front} {
			if c != noNode {
				stack = append(stack, item{c, it.depth + 1})
			}
		}
	}
	return deepest
}

// Walk visits the leaves from farthest to nearest as seen through proj. At
// each node the side of the plane facing away from the viewer is visited
// first, then the in-plane leaf, then the facing side.
func (t *Tree) Walk(proj Projector, visit func(Leaf)) {
	if t.root == noNode {
		return
	}
	type item struct {
		node int
		leaf bool
	}
	stack := []item{{node: t.root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[it.node]
		if !n.hasPlane {
			visit(Leaf{Batches: n.leaf})
			continue
		}
		if it.leaf {
			visit(Leaf{Batches: n.leaf, InPlane: true})
			continue
		}
		far, near := n.back, n.front
		if !facesViewer(proj, n.plane) {
			far, near = near, far
		}
		// pushed in reverse visiting order
		if near != noNode {
			stack = append(stack, item{node: near})
		}
		stack = append(stack, item{node: it.node, leaf: true})
		if far != noNode {
			stack = append(stack, item{node: far})
		}
	}
}

// facesViewer reports whether the front side of p is toward the viewer,
// comparing the projected depth of a point on p with the tip of its normal.
func facesViewer(proj Projector, p Plane) bool {
	o := p.Normal.Mul(p.D)
	_, _, z := proj.Project([]mgl64.Vec3{o, o.Add(p.Normal)}, true)
	return z[1] >= z[0]
}

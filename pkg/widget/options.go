package widget

// Options is the vis-network configuration object. Field names follow the
// engine's option keys so the struct marshals directly into the page.
type Options struct {
	Physics     Physics     `json:"physics"`
	Interaction Interaction `json:"interaction"`
	Edges       EdgeStyle   `json:"edges"`
	Nodes       NodeStyle   `json:"nodes"`
}

type Physics struct {
	Enabled       bool          `json:"enabled"`
	Solver        string        `json:"solver"`
	Repulsion     Repulsion     `json:"repulsion"`
	Stabilization Stabilization `json:"stabilization"`
}

type Repulsion struct {
	NodeDistance   int     `json:"nodeDistance"`
	SpringLength   int     `json:"springLength"`
	SpringConstant float64 `json:"springConstant"`
	Damping        float64 `json:"damping"`
	CentralGravity float64 `json:"centralGravity"`
}

type Stabilization struct {
	Enabled bool `json:"enabled"`
}

type Interaction struct {
	Hover             bool    `json:"hover"`
	DragNodes         bool    `json:"dragNodes"`
	ZoomView          bool    `json:"zoomView"`
	ZoomSpeed         float64 `json:"zoomSpeed"`
	NavigationButtons bool    `json:"navigationButtons"`
	DragView          bool    `json:"dragView"`
}

type EdgeStyle struct {
	Width int `json:"width"`
}

type NodeStyle struct {
	Shape           string          `json:"shape"`
	Shadow          Shadow          `json:"shadow"`
	Margin          int             `json:"margin"`
	Size            int             `json:"size"`
	WidthConstraint WidthConstraint `json:"widthConstraint"`
	Font            Font            `json:"font"`
}

type Shadow struct {
	Enabled bool `json:"enabled"`
	Size    int  `json:"size"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
}

type WidthConstraint struct {
	Maximum int `json:"maximum"`
}

type Font struct {
	Size int `json:"size"`
}

// DefaultOptions returns the fixed widget configuration: a repulsion layout
// that keeps running (no stabilization pass), full pan/zoom/drag interaction
// and large circular nodes.
func DefaultOptions() Options {
	return Options{
		Physics: Physics{
			Enabled: true,
			Solver:  "repulsion",
			Repulsion: Repulsion{
				NodeDistance:   1500,
				SpringLength:   300,
				SpringConstant: 0.03,
				Damping:        0.09,
				CentralGravity: 0,
			},
			Stabilization: Stabilization{Enabled: false},
		},
		Interaction: Interaction{
			Hover:             true,
			DragNodes:         true,
			ZoomView:          true,
			ZoomSpeed:         0.6,
			NavigationButtons: true,
			DragView:          true,
		},
		Edges: EdgeStyle{Width: 15},
		Nodes: NodeStyle{
			Shape:           "circle",
			Shadow:          Shadow{Enabled: true, Size: 15, X: 7, Y: 7},
			Margin:          120,
			Size:            80,
			WidthConstraint: WidthConstraint{Maximum: 180},
			Font:            Font{Size: 12},
		},
	}
}

package output

// SlideOutput is the JSON form of one rendered slide.
type SlideOutput struct {
	No          int            `json:"no"`
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	Layout      string         `json:"layout,omitempty"`
	Clicks      int            `json:"clicks"`
	Source      string         `json:"source,omitempty"`
	Code        string         `json:"code,omitempty"`
	Error       string         `json:"error,omitempty"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
}

// RenderOutput is the JSON result of the render command.
type RenderOutput struct {
	Slides []SlideOutput `json:"slides"`
	Failed int           `json:"failed"`
}

// CSSOutput is the JSON form of one slide's stylesheet.
type CSSOutput struct {
	No          int      `json:"no"`
	CSS         string   `json:"css"`
	Matched     []string `json:"matched"`
	ConfigError string   `json:"configError,omitempty"`
	Warning     string   `json:"warning,omitempty"`
}

// LayoutsOutput lists the registered layouts and components.
type LayoutsOutput struct {
	Layouts    []string `json:"layouts"`
	Components []string `json:"components"`
}

// DAGNode is one component in the import graph.
type DAGNode struct {
	Name      string   `json:"name"`
	DependsOn []string `json:"depends_on"`
	UsedBy    []string `json:"used_by"`
}

// DAGLevel groups the components at one import depth.
type DAGLevel struct {
	Level      int       `json:"level"`
	Components []DAGNode `json:"components"`
}

// DAGOutput is the JSON result of the dag command.
type DAGOutput struct {
	Levels          []DAGLevel `json:"levels"`
	TotalComponents int        `json:"total_components"`
	TotalEdges      int        `json:"total_edges"`
}

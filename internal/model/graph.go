package model

// GraphEdge is a dependency edge pointing from the depended-on repo (Source)
// to the repo that depends on it (Target).
type GraphEdge struct {
	Source Repo `json:"source"`
	Target Repo `json:"target"`
}

// GraphSnapshot is a serializable view of a dependency plan.
type GraphSnapshot struct {
	CurrentRepo Repo         `json:"current_repo"`
	Nodes       []Repo       `json:"nodes"`
	Edges       []*GraphEdge `json:"edges"`
	NodeCount   int          `json:"node_count"`
	EdgeCount   int          `json:"edge_count"`
}

package roadmap

// Document bundles a complete roadmap definition: the chart settings, the
// declared workstreams, and the tasks. It is the unit the io package
// decodes and the pipeline consumes.
type Document struct {
	Settings    Settings     `json:"settings" bson:"settings"`
	Workstreams []Workstream `json:"workstreams" bson:"workstreams"`
	Tasks       []Task       `json:"tasks" bson:"tasks"`
}

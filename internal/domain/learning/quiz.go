package learning

type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectIndex  *int     `json:"correct_index"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	Questions []Question `json:"questions"`
}

type Diagram struct {
	MermaidCode string `json:"mermaid_code"`
}

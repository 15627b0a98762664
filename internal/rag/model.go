package rag

// ContextBlock is one retrieved-and-assembled unit of prompt context.
// Blocks arrive in retrieval rank order and that order is never changed.
type ContextBlock struct {
	ChunkID    string  `json:"chunkId" yaml:"chunk_id"`
	Content    string  `json:"content" yaml:"content"`
	TokenCount int     `json:"tokenCount" yaml:"token_count"`
	Score      float64 `json:"score" yaml:"score"`
}

// FinalPrompt is the structured payload the backend would send to the language model.
type FinalPrompt struct {
	SystemInstruction string         `json:"systemInstruction" yaml:"system_instruction"`
	ContextBlocks     []ContextBlock `json:"contextBlocks" yaml:"context_blocks"`
	UserQuestion      string         `json:"userQuestion" yaml:"user_question"`
	OutputConstraint  string         `json:"outputConstraint" yaml:"output_constraint"`
}

// Scene is a raw retrieval hit prior to context assembly.
type Scene struct {
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Content  string         `json:"content" yaml:"content"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Score is the retrieval similarity when the backend reports it
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// Text is the backend's native field name for the scene body
	Text string `json:"text,omitempty" yaml:"-"`
}

// Body returns the scene content, falling back to the backend's text field.
func (s Scene) Body() string {
	if s.Content != "" {
		return s.Content
	}
	return s.Text
}

// DebugResult is the complete response of one debug invocation.
type DebugResult struct {
	Stats           map[string]any `json:"stats" yaml:"stats"`
	RetrievedScenes []Scene        `json:"retrievedScenes" yaml:"retrieved_scenes"`
	ContextBlocks   []ContextBlock `json:"contextBlocks" yaml:"context_blocks"`
	FinalPrompt     FinalPrompt    `json:"finalPrompt" yaml:"final_prompt"`
}

// BackendTokenCount sums the token counts the backend reported per context block.
// It is independent of any client-side estimate.
func (r *DebugResult) BackendTokenCount() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, b := range r.ContextBlocks {
		total += b.TokenCount
	}
	return total
}

// QueryRequest is the body shared by the chat, ask and debug endpoints.
type QueryRequest struct {
	Question string `json:"question"`
	Novel    string `json:"novel"`
	Version  string `json:"version"`
	TopK     int    `json:"topK"`
}

// Citation points an answer back at the context it used.
type Citation struct {
	ChunkID  string         `json:"chunkId,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Content  string         `json:"content,omitempty"`
	Score    *float64       `json:"score,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Answer is a chat or ask response.
type Answer struct {
	Answer     string     `json:"answer"`
	Citations  []Citation `json:"citations"`
	Confidence *float64   `json:"confidence,omitempty"`
}

// IngestRequest asks the backend to split and embed an uploaded novel.
type IngestRequest struct {
	FileName string `json:"fileName"`
	Version  string `json:"version"`

	// MaxScenes caps the number of scenes ingested (0 = all)
	MaxScenes int `json:"maxScenes"`
}

// UploadResult is the backend's reply to a novel upload.
type UploadResult struct {
	Message  string `json:"message"`
	FileName string `json:"fileName,omitempty"`
	Error    string `json:"error,omitempty"`
}

// VectorStats describes the backend vector store.
type VectorStats struct {
	Count int64  `json:"count"`
	Type  string `json:"type"`
}

// VectorSearchRequest runs a raw similarity search against the vector store.
type VectorSearchRequest struct {
	Query  string         `json:"query"`
	TopK   int            `json:"topK,omitempty"`
	Filter map[string]any `json:"filter,omitempty"`
}

// VectorRecord is a single similarity hit without content.
type VectorRecord struct {
	ChunkID  string         `json:"chunkId"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

package crawler

// TaskStatus is the remote lifecycle state of a crawl task.
type TaskStatus string

const (
	// TaskPending indicates the task is queued but not yet started.
	TaskPending TaskStatus = "pending"
	// TaskProcessing indicates the crawl is in progress.
	TaskProcessing TaskStatus = "processing"
	// TaskCompleted indicates the crawl finished and results are available.
	TaskCompleted TaskStatus = "completed"
	// TaskFailed indicates the crawl failed on the remote side.
	TaskFailed TaskStatus = "failed"
)

// Link is a hyperlink discovered on a crawled page.
type Link struct {
	Href  string `json:"href"`
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
}

// Links groups discovered links by whether they stay on the crawled site.
type Links struct {
	Internal []Link `json:"internal,omitempty"`
	External []Link `json:"external,omitempty"`
}

// MarkdownV2 is the richer markdown bundle newer crawler versions return.
type MarkdownV2 struct {
	RawMarkdown           string `json:"raw_markdown,omitempty"`
	MarkdownWithCitations string `json:"markdown_with_citations,omitempty"`
	ReferencesMarkdown    string `json:"references_markdown,omitempty"`
	FitMarkdown           string `json:"fit_markdown,omitempty"`
	FitHTML               string `json:"fit_html,omitempty"`
}

// PageMetadata holds page-level metadata extracted during the crawl.
type PageMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Author      string `json:"author,omitempty"`
}

// Result is the crawl output for a single URL. Immutable after receipt.
type Result struct {
	URL          string        `json:"url"`
	HTML         string        `json:"html,omitempty"`
	CleanedHTML  string        `json:"cleaned_html,omitempty"`
	Markdown     string        `json:"markdown,omitempty"`
	MarkdownV2   *MarkdownV2   `json:"markdown_v2,omitempty"`
	Links        *Links        `json:"links,omitempty"`
	Metadata     *PageMetadata `json:"metadata,omitempty"`
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"error_message,omitempty"`
	StatusCode   int           `json:"status_code,omitempty"`
}

// Task is the observed state of a remote crawl task.
type Task struct {
	TaskID       string     `json:"task_id,omitempty"`
	Status       TaskStatus `json:"status"`
	CreatedAt    float64    `json:"created_at,omitempty"`
	Result       *Result    `json:"result,omitempty"`
	Results      []Result   `json:"results,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Terminal reports whether the task has reached a final remote state.
func (t *Task) Terminal() bool {
	return t.Status == TaskCompleted || t.Status == TaskFailed
}

// PrimaryResult returns the single result if present, falling back to the
// first element of the results array. Returns nil when the task carries no
// usable result object.
func (t *Task) PrimaryResult() *Result {
	if t.Result != nil {
		return t.Result
	}
	if len(t.Results) > 0 {
		return &t.Results[0]
	}
	return nil
}

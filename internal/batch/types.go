package batch

const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// ReasonInvalidFile marks entries skipped before any network call.
const ReasonInvalidFile = "invalid file object"

// DefaultCommitMessage is used when a request carries no commitMessage.
const DefaultCommitMessage = "gitdrop: update files"

type Request struct {
	Files         []FileSpec `json:"files"`
	CommitMessage string     `json:"commitMessage"`
	Branch        string     `json:"branch"`
}

// FileSpec is one requested write. Content is a pointer so a file object
// that omits the field can be told apart from one carrying an empty string.
type FileSpec struct {
	Path     string  `json:"path"`
	Content  *string `json:"content"`
	Encoding string  `json:"encoding"`
}

// Result reports the outcome for one FileSpec, at the same index.
type Result struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
	CommitSHA string `json:"commitSha,omitempty"`
}

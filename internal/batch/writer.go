// Package batch turns a batch request into one commit per file against a
// remote repository, collecting an ordered result per entry.
package batch

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Repo is the slice of the repository API the writer needs.
// Implemented by *github.Client; inject a fake in tests.
type Repo interface {
	// FileSHA returns the current blob SHA of path on ref, or "" when the
	// file does not exist there.
	FileSHA(ctx context.Context, path, ref string) (string, error)
	// WriteFile commits content to path on branch and returns the commit
	// SHA. A non-empty sha makes the write conditional on that blob.
	WriteFile(ctx context.Context, path string, content []byte, message, branch, sha string) (string, error)
}

// Options configures a Writer.
type Options struct {
	// Branch written to when the request does not name one.
	Branch string

	// Message used when the request carries no commitMessage.
	Message string

	// Concurrency bounds how many files are written at once. Values below
	// 2 keep the strict one-after-another order, which lets later entries
	// in a batch depend on earlier ones having landed.
	Concurrency int

	Logger *slog.Logger
}

// Writer executes batches against a single repository.
type Writer struct {
	repo        Repo
	branch      string
	message     string
	concurrency int
	log         *slog.Logger
}

func NewWriter(repo Repo, opts Options) *Writer {
	w := &Writer{
		repo:        repo,
		branch:      opts.Branch,
		message:     opts.Message,
		concurrency: opts.Concurrency,
		log:         opts.Logger,
	}
	if w.branch == "" {
		w.branch = "main"
	}
	if w.message == "" {
		w.message = DefaultCommitMessage
	}
	if w.concurrency < 1 {
		w.concurrency = 1
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	return w
}

// Run processes every file in req and returns exactly one Result per entry,
// in request order. Per-file failures land in the result slice and never
// abort the rest of the batch.
func (w *Writer) Run(ctx context.Context, req Request) []Result {
	branch := req.Branch
	if branch == "" {
		branch = w.branch
	}
	message := req.CommitMessage
	if message == "" {
		message = w.message
	}

	w.log.Info("processing batch", "files", len(req.Files), "branch", branch)
	start := time.Now()

	results := make([]Result, len(req.Files))
	if w.concurrency > 1 && len(req.Files) > 1 {
		g := new(errgroup.Group)
		g.SetLimit(w.concurrency)
		for i, f := range req.Files {
			i, f := i, f // per-iteration copies; pre-1.22 loop semantics
			g.Go(func() error {
				results[i] = w.writeOne(ctx, f, message, branch)
				return nil
			})
		}
		// Failures are recorded per slot; the group itself never errors.
		_ = g.Wait()
	} else {
		for i, f := range req.Files {
			results[i] = w.writeOne(ctx, f, message, branch)
		}
	}

	var written, skipped, failed int
	for _, res := range results {
		switch res.Status {
		case StatusOK:
			written++
		case StatusSkipped:
			skipped++
		default:
			failed++
		}
	}
	w.log.Info("batch done", "written", written, "skipped", skipped, "failed", failed, "elapsed", time.Since(start))
	return results
}

func (w *Writer) writeOne(ctx context.Context, f FileSpec, message, branch string) Result {
	if f.Path == "" || f.Content == nil {
		return Result{Path: f.Path, Status: StatusSkipped, Reason: ReasonInvalidFile}
	}

	content, err := decodeContent(*f.Content, f.Encoding)
	if err != nil {
		return Result{Path: f.Path, Status: StatusError, Message: "decode content: " + err.Error()}
	}

	sha, err := w.repo.FileSHA(ctx, f.Path, branch)
	if err != nil {
		w.log.Warn("read failed", "path", f.Path, "branch", branch, "error", err)
		return Result{Path: f.Path, Status: StatusError, Message: err.Error()}
	}

	commit, err := w.repo.WriteFile(ctx, f.Path, content, message, branch, sha)
	if err != nil {
		w.log.Warn("write failed", "path", f.Path, "branch", branch, "error", err)
		return Result{Path: f.Path, Status: StatusError, Message: err.Error()}
	}
	return Result{Path: f.Path, Status: StatusOK, CommitSHA: commit}
}

// decodeContent interprets content per the declared encoding. Only "base64"
// is special; any other value, including none, is taken as UTF-8 text.
func decodeContent(content, encoding string) ([]byte, error) {
	if encoding == "base64" {
		return base64.StdEncoding.DecodeString(content)
	}
	return []byte(content), nil
}

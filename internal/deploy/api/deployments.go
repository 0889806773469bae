package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
	"nathanbeddoewebdev/deployctl/internal/retry"

	"golang.org/x/sync/errgroup"
)

// CodeMissingFiles is answered by the create endpoint when some manifest
// entries have not been uploaded yet.
const CodeMissingFiles = "missing_files"

// maxConcurrentUploads bounds parallel file uploads.
const maxConcurrentUploads = 8

// --- API request/response types ---

type createDeploymentBody struct {
	Name    string            `json:"name"`
	Files   []domain.File     `json:"files"`
	Target  string            `json:"target,omitempty"`
	Alias   []string          `json:"alias,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Build   *buildBody        `json:"build,omitempty"`
	Regions []string          `json:"regions,omitempty"`
	Public  bool              `json:"public,omitempty"`
}

type buildBody struct {
	Env map[string]string `json:"env,omitempty"`
}

// apiDeployment is the deployment object of the API. createdAt is in
// milliseconds since the epoch.
type apiDeployment struct {
	ID         string   `json:"id"`
	URL        string   `json:"url"`
	Name       string   `json:"name"`
	ReadyState string   `json:"readyState"`
	Target     string   `json:"target"`
	Alias      []string `json:"alias"`
	CreatedAt  int64    `json:"createdAt"`
}

func (d apiDeployment) toDomain() *domain.Deployment {
	dep := &domain.Deployment{
		ID:         d.ID,
		URL:        d.URL,
		Name:       d.Name,
		ReadyState: d.ReadyState,
		Target:     d.Target,
		Alias:      d.Alias,
	}
	if d.CreatedAt > 0 {
		dep.CreatedAt = time.UnixMilli(d.CreatedAt).UTC()
	}
	return dep
}

// CreateDeployment creates a deployment from the manifest. When the
// platform reports missing files they are uploaded and the create call is
// repeated once.
func (c *Client) CreateDeployment(ctx context.Context, manifest *domain.Manifest, opts domain.CreateOpts) (*domain.Deployment, error) {
	if manifest == nil || len(manifest.Files) == 0 {
		return nil, fmt.Errorf("api: cannot create a deployment without files")
	}

	dep, err := c.createDeployment(ctx, manifest, opts)
	if err == nil {
		return dep, nil
	}

	apiErr, ok := domain.AsAPIError(err)
	if !ok || apiErr.Code != CodeMissingFiles || len(apiErr.Missing) == 0 {
		return nil, err
	}

	c.logger.WithField("count", len(apiErr.Missing)).Debug("Uploading missing files")
	if err := c.uploadMissing(ctx, manifest, apiErr.Missing); err != nil {
		return nil, err
	}

	return c.createDeployment(ctx, manifest, opts)
}

func (c *Client) createDeployment(ctx context.Context, manifest *domain.Manifest, opts domain.CreateOpts) (*domain.Deployment, error) {
	body := createDeploymentBody{
		Name:    opts.Name,
		Files:   manifest.Files,
		Target:  opts.Target,
		Alias:   opts.Alias,
		Env:     opts.Env,
		Regions: opts.Regions,
		Public:  opts.Public,
	}
	if len(opts.BuildEnv) > 0 {
		body.Build = &buildBody{Env: opts.BuildEnv}
	}

	req, err := jsonRequest(http.MethodPost, "/v13/deployments", body)
	if err != nil {
		return nil, err
	}
	// A timed-out create may still have succeeded server-side.
	req.retryIf = retry.IsRetryableStatus
	if opts.Force {
		req.query = url.Values{"forceNew": []string{"1"}}
	}

	var out apiDeployment
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// uploadMissing uploads the files with the given digests concurrently.
func (c *Client) uploadMissing(ctx context.Context, manifest *domain.Manifest, missing []string) error {
	files := make([]domain.File, 0, len(missing))
	for _, sha := range missing {
		file, ok := manifest.BySHA(sha)
		if !ok {
			return fmt.Errorf("api: platform requested unknown file %s", sha)
		}
		files = append(files, file)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for _, file := range files {
		g.Go(func() error {
			return c.UploadFile(gctx, manifest.Root, file)
		})
	}

	return g.Wait()
}

// UploadFile uploads the contents of a single manifest entry.
func (c *Client) UploadFile(ctx context.Context, root string, file domain.File) error {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(file.Path)))
	if err != nil {
		return fmt.Errorf("api: failed to read %s: %w", file.Path, err)
	}

	req := request{
		method: http.MethodPost,
		path:   "/v2/files",
		body:   data,
		header: http.Header{
			"Content-Type":  []string{"application/octet-stream"},
			"X-File-Digest": []string{file.SHA},
			"X-File-Size":   []string{strconv.FormatInt(int64(len(data)), 10)},
		},
	}
	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("failed to upload %s: %w", file.Path, err)
	}
	return nil
}
